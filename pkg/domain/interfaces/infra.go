package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . Executor BuildTask BigQuery LogArchive

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/brix/pkg/domain/model"
)

// Executor runs builds of child jobs asynchronously
type Executor interface {
	// ScheduleBuild enqueues a build of the job's head revision and returns without waiting for it
	ScheduleBuild(ctx context.Context, job *model.ChildJob) (BuildTask, error)
}

// BuildTask is a handle of a scheduled build
type BuildTask interface {
	Number() int
	// AwaitTerminal blocks until the build finishes, ctx is done or timeout elapses
	AwaitTerminal(ctx context.Context, timeout time.Duration) (*model.BuildResult, error)
}

type BigQuery interface {
	Insert(ctx context.Context, schema bigquery.Schema, data any) error

	GetMetadata(ctx context.Context) (*bigquery.TableMetadata, error)
	UpdateTable(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error
	CreateTable(ctx context.Context, md *bigquery.TableMetadata) error
}

// LogArchive keeps the log text of finished indexing runs
type LogArchive interface {
	Put(ctx context.Context, run *model.IndexingRun) error
}
