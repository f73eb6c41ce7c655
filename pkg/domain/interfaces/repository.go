package interfaces

import (
	"context"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
)

// IndexRepository stores branch projections, child jobs and indexing runs per project
type IndexRepository interface {
	// Projection operations
	ListProjections(ctx context.Context, project types.ProjectName) ([]*model.ProjectedBranch, error)
	PutProjections(ctx context.Context, project types.ProjectName, projections []*model.ProjectedBranch) error

	// Job operations
	GetJob(ctx context.Context, project types.ProjectName, name types.JobName) (*model.ChildJob, error)
	ListJobs(ctx context.Context, project types.ProjectName) ([]*model.ChildJob, error)
	PutJob(ctx context.Context, job *model.ChildJob) error
	DeleteJob(ctx context.Context, project types.ProjectName, name types.JobName) error

	// Run operations
	PutRun(ctx context.Context, run *model.IndexingRun) error
	GetRun(ctx context.Context, project types.ProjectName, id types.RunID) (*model.IndexingRun, error)
	GetLatestRun(ctx context.Context, project types.ProjectName) (*model.IndexingRun, error)
}
