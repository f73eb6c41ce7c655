package usecase

import (
	"context"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/infra/metrics"
	"github.com/m-mizutani/brix/pkg/utils/errutil"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// finishRun saves and exports the terminal run. Errors are reported but do not change the run.
func (x *UseCase) finishRun(ctx context.Context, run *model.IndexingRun) {
	ctx = context.WithoutCancel(ctx)

	if err := x.clients.Repository().PutRun(ctx, run); err != nil {
		errutil.HandleError(ctx, "failed to save indexing run", err)
	}
	metrics.ObserveRun(run)

	jobs, err := x.ListJobs(ctx, run.Project)
	if err != nil {
		errutil.HandleError(ctx, "failed to list jobs for export", err)
	} else {
		metrics.SetChildJobs(run.Project, len(jobs))
	}

	if bq := x.clients.BigQuery(); bq != nil {
		if err := exportRun(ctx, bq, model.NewRunRecord(run, jobs)); err != nil {
			errutil.HandleError(ctx, "failed to export indexing run to BigQuery", err)
		}
	}

	if archive := x.clients.LogArchive(); archive != nil {
		if err := archive.Put(ctx, run); err != nil {
			errutil.HandleError(ctx, "failed to archive indexing run log", err)
		}
	}

	logging.From(ctx).Info("indexing run finished",
		slog.Any("run_id", run.ID),
		slog.Any("result", run.Result),
		slog.Int("jobs", len(jobs)),
		slog.Duration("elapsed", run.EndedAt.Sub(run.StartedAt)),
	)
}

func exportRun(ctx context.Context, bq interfaces.BigQuery, record *model.RunRecord) error {
	schema, err := createOrUpdateBigQueryTable(ctx, bq, record)
	if err != nil {
		return err
	}

	if err := bq.Insert(ctx, schema, record.Raw()); err != nil {
		return goerr.Wrap(err, "failed to insert indexing run to BigQuery", goerr.V("run_id", record.ID))
	}

	return nil
}

func createOrUpdateBigQueryTable(ctx context.Context, bq interfaces.BigQuery, record *model.RunRecord) (bigquery.Schema, error) {
	schema, err := bqs.Infer(record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer run record schema")
	}

	metaData, err := bq.GetMetadata(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get BigQuery table metadata")
	}
	if metaData == nil {
		if err := bq.CreateTable(ctx, &bigquery.TableMetadata{
			Schema: schema,
			TimePartitioning: &bigquery.TimePartitioning{
				Field: "started_at",
				Type:  bigquery.DayPartitioningType,
			},
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to create BigQuery table")
		}

		return schema, nil
	}

	if bqs.Equal(metaData.Schema, schema) {
		return schema, nil
	}

	mergedSchema, err := bqs.Merge(metaData.Schema, schema)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to merge BigQuery schema")
	}
	if bqs.Equal(metaData.Schema, mergedSchema) {
		return mergedSchema, nil
	}

	if err := bq.UpdateTable(ctx, bigquery.TableMetadataToUpdate{
		Schema: mergedSchema,
	}, metaData.ETag); err != nil {
		return nil, goerr.Wrap(err, "failed to update BigQuery table")
	}

	return mergedSchema, nil
}
