package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

import (
	"context"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
)

type UseCase interface {
	IndexProject(ctx context.Context, project types.ProjectName) (*model.IndexingRun, error)
	Projects() []types.ProjectName
	ProjectsByRepository(owner, repo string) []types.ProjectName
	GetLatestRun(ctx context.Context, project types.ProjectName) (*model.IndexingRun, error)
	ListJobs(ctx context.Context, project types.ProjectName) ([]*model.ChildJob, error)
}
