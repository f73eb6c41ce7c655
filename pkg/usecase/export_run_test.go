package usecase_test

import (
	"context"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/brix/pkg/domain/mock"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra"
	"github.com/m-mizutani/brix/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func newExportUseCase(bq *mock.BigQueryMock, archive *mock.LogArchiveMock) *usecase.UseCase {
	clients := infra.New(
		infra.WithBigQuery(bq),
		infra.WithLogArchive(archive),
	)
	project := &model.Project{Name: testProject, Owner: "bob", Repo: "foo", Traits: model.DefaultTraitConfig()}
	return usecase.New(clients, usecase.WithProject(project, newSampleSource()))
}

func TestExportRun(t *testing.T) {
	ctx := context.Background()

	t.Run("create table and insert run", func(t *testing.T) {
		var inserted any
		bq := &mock.BigQueryMock{
			GetMetadataFunc: func(ctx context.Context) (*bigquery.TableMetadata, error) {
				return nil, nil
			},
			CreateTableFunc: func(ctx context.Context, md *bigquery.TableMetadata) error {
				gt.V(t, md.TimePartitioning.Field).Equal("started_at")
				return nil
			},
			InsertFunc: func(ctx context.Context, schema bigquery.Schema, data any) error {
				inserted = data
				return nil
			},
		}
		var archived *model.IndexingRun
		archive := &mock.LogArchiveMock{
			PutFunc: func(ctx context.Context, run *model.IndexingRun) error {
				archived = run
				return nil
			},
		}

		run := gt.R1(newExportUseCase(bq, archive).IndexProject(ctx, testProject)).NoError(t)
		gt.V(t, run.Result).Equal(types.ResultSuccess)

		gt.V(t, len(bq.CreateTableCalls())).Equal(1)
		gt.V(t, len(bq.UpdateTableCalls())).Equal(0)
		gt.V(t, len(bq.InsertCalls())).Equal(1)

		record, ok := inserted.(*model.RunRawRecord)
		gt.True(t, ok)
		gt.V(t, record.ID).Equal(run.ID.String())
		gt.V(t, record.Result).Equal("SUCCESS")
		gt.V(t, record.StartedAt).Equal(run.StartedAt.UnixMicro())
		gt.V(t, len(record.Jobs)).Equal(1)
		gt.V(t, record.Jobs[0].Name).Equal("main")
		gt.V(t, record.Jobs[0].NextBuildNumber).Equal(int64(2))

		gt.V(t, archived.ID).Equal(run.ID)
		gt.S(t, archived.Log()).Contains("Finished: SUCCESS")
	})

	t.Run("update table schema if changed", func(t *testing.T) {
		bq := &mock.BigQueryMock{
			GetMetadataFunc: func(ctx context.Context) (*bigquery.TableMetadata, error) {
				return &bigquery.TableMetadata{
					Schema: bigquery.Schema{
						{Name: "id", Type: bigquery.StringFieldType},
					},
					ETag: "etag-1",
				}, nil
			},
			UpdateTableFunc: func(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error {
				gt.V(t, eTag).Equal("etag-1")
				return nil
			},
			InsertFunc: func(ctx context.Context, schema bigquery.Schema, data any) error {
				return nil
			},
		}
		archive := &mock.LogArchiveMock{
			PutFunc: func(ctx context.Context, run *model.IndexingRun) error { return nil },
		}

		gt.R1(newExportUseCase(bq, archive).IndexProject(ctx, testProject)).NoError(t)
		gt.V(t, len(bq.UpdateTableCalls())).Equal(1)
		gt.V(t, len(bq.InsertCalls())).Equal(1)
	})

	t.Run("export failure does not change run result", func(t *testing.T) {
		bq := &mock.BigQueryMock{
			GetMetadataFunc: func(ctx context.Context) (*bigquery.TableMetadata, error) {
				return nil, goerr.New("permission denied")
			},
		}
		archive := &mock.LogArchiveMock{
			PutFunc: func(ctx context.Context, run *model.IndexingRun) error {
				return goerr.New("bucket not found")
			},
		}

		run := gt.R1(newExportUseCase(bq, archive).IndexProject(ctx, testProject)).NoError(t)
		gt.V(t, run.Result).Equal(types.ResultSuccess)
		gt.V(t, len(bq.InsertCalls())).Equal(0)
		gt.V(t, len(archive.PutCalls())).Equal(1)
	})
}
