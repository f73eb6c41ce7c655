package testhelper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/repository"
	"github.com/m-mizutani/gt"
)

// TestAll runs all test cases for IndexRepository
// This is the main entry point for testing any IndexRepository implementation
func TestAll(t *testing.T, repo interfaces.IndexRepository) {
	t.Run("ProjectionOps", func(t *testing.T) {
		TestProjectionOps(t, repo)
	})
	t.Run("JobCRUD", func(t *testing.T) {
		TestJobCRUD(t, repo)
	})
	t.Run("JobWithSlash", func(t *testing.T) {
		TestJobWithSlash(t, repo)
	})
	t.Run("RunOps", func(t *testing.T) {
		TestRunOps(t, repo)
	})
	t.Run("NotFound", func(t *testing.T) {
		TestNotFound(t, repo)
	})
}

func newProjectName() types.ProjectName {
	return types.ProjectName(fmt.Sprintf("owner-%s/repo-%s", uuid.New().String()[:8], uuid.New().String()[:8]))
}

// TestProjectionOps tests listing and batch update of projections
func TestProjectionOps(t *testing.T, repo interfaces.IndexRepository) {
	ctx := context.Background()
	project := newProjectName()
	now := time.Now().UTC().Truncate(time.Millisecond)

	// Empty project has no projection
	projections, err := repo.ListProjections(ctx, project)
	gt.NoError(t, err)
	gt.V(t, len(projections)).Equal(0)

	gt.NoError(t, repo.PutProjections(ctx, project, []*model.ProjectedBranch{
		{ProjectName: "main", HeadRevision: "a1", Alive: true, UpdatedAt: now},
		{ProjectName: "develop", HeadRevision: "b1", Alive: true, UpdatedAt: now},
	}))

	projections, err = repo.ListProjections(ctx, project)
	gt.NoError(t, err)
	gt.V(t, len(projections)).Equal(2)

	// Update one and mark the other dead
	gt.NoError(t, repo.PutProjections(ctx, project, []*model.ProjectedBranch{
		{ProjectName: "main", HeadRevision: "a2", Alive: true, UpdatedAt: now},
		{ProjectName: "develop", HeadRevision: "b1", Alive: false, UpdatedAt: now},
	}))

	projections, err = repo.ListProjections(ctx, project)
	gt.NoError(t, err)
	gt.V(t, len(projections)).Equal(2)
	sort.Slice(projections, func(i, j int) bool { return projections[i].ProjectName < projections[j].ProjectName })

	gt.V(t, projections[0].ProjectName).Equal(types.JobName("develop"))
	gt.False(t, projections[0].Alive)
	gt.V(t, projections[1].ProjectName).Equal(types.JobName("main"))
	gt.V(t, projections[1].HeadRevision).Equal(types.Revision("a2"))
	gt.True(t, projections[1].Alive)

	// Projections of another project are isolated
	other, err := repo.ListProjections(ctx, newProjectName())
	gt.NoError(t, err)
	gt.V(t, len(other)).Equal(0)

	// Empty name is rejected
	err = repo.PutProjections(ctx, project, []*model.ProjectedBranch{{HeadRevision: "x"}})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrInvalidInput))
}

// TestJobCRUD tests basic CRUD operations for ChildJob
func TestJobCRUD(t *testing.T, repo interfaces.IndexRepository) {
	ctx := context.Background()
	project := newProjectName()
	now := time.Now().UTC().Truncate(time.Millisecond)

	job := &model.ChildJob{
		Project:         project,
		Name:            "main",
		Kind:            types.DecisionBranch,
		HeadRevision:    "a1",
		NextBuildNumber: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	gt.NoError(t, repo.PutJob(ctx, job))

	retrieved, err := repo.GetJob(ctx, project, "main")
	gt.NoError(t, err)
	gt.V(t, retrieved.Name).Equal(job.Name)
	gt.V(t, retrieved.Kind).Equal(job.Kind)
	gt.V(t, retrieved.HeadRevision).Equal(job.HeadRevision)
	gt.V(t, retrieved.NextBuildNumber).Equal(1)

	// Update
	job.RecordBuild(1, now)
	gt.NoError(t, repo.PutJob(ctx, job))

	retrieved, err = repo.GetJob(ctx, project, "main")
	gt.NoError(t, err)
	gt.V(t, retrieved.LastBuiltRevision).Equal(types.Revision("a1"))
	gt.V(t, retrieved.NextBuildNumber).Equal(2)
	gt.V(t, len(retrieved.Builds)).Equal(1)

	// Stored value is not shared with caller
	retrieved.NextBuildNumber = 100
	again, err := repo.GetJob(ctx, project, "main")
	gt.NoError(t, err)
	gt.V(t, again.NextBuildNumber).Equal(2)

	// List
	gt.NoError(t, repo.PutJob(ctx, &model.ChildJob{Project: project, Name: "PR-1", Kind: types.DecisionOriginPR, NextBuildNumber: 1}))
	jobs, err := repo.ListJobs(ctx, project)
	gt.NoError(t, err)
	gt.V(t, len(jobs)).Equal(2)

	// Delete
	gt.NoError(t, repo.DeleteJob(ctx, project, "main"))
	_, err = repo.GetJob(ctx, project, "main")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	jobs, err = repo.ListJobs(ctx, project)
	gt.NoError(t, err)
	gt.V(t, len(jobs)).Equal(1)
	gt.V(t, jobs[0].Name).Equal(types.JobName("PR-1"))
}

// TestJobWithSlash tests job names containing "/" such as "feature/foo"
func TestJobWithSlash(t *testing.T, repo interfaces.IndexRepository) {
	ctx := context.Background()
	project := newProjectName()

	names := []types.JobName{"feature/foo", "feature/bar/baz", "release/v1.0"}
	for _, name := range names {
		gt.NoError(t, repo.PutJob(ctx, &model.ChildJob{Project: project, Name: name, NextBuildNumber: 1}))
	}

	for _, name := range names {
		job, err := repo.GetJob(ctx, project, name)
		gt.NoError(t, err)
		gt.V(t, job.Name).Equal(name)
	}

	gt.NoError(t, repo.PutProjections(ctx, project, []*model.ProjectedBranch{
		{ProjectName: "feature/foo", HeadRevision: "a1", Alive: true},
	}))
	projections, err := repo.ListProjections(ctx, project)
	gt.NoError(t, err)
	gt.V(t, len(projections)).Equal(1)
	gt.V(t, projections[0].ProjectName).Equal(types.JobName("feature/foo"))
}

// TestRunOps tests storing runs and fetching the latest one
func TestRunOps(t *testing.T, repo interfaces.IndexRepository) {
	ctx := context.Background()
	project := newProjectName()
	base := time.Now().UTC().Truncate(time.Millisecond)

	first := model.NewIndexingRun(project, base)
	first.Appendf("first run")
	first.Finish(types.ResultSuccess, base.Add(time.Second))
	gt.NoError(t, repo.PutRun(ctx, first))

	second := model.NewIndexingRun(project, base.Add(time.Minute))
	second.Appendf("second run")
	second.Finish(types.ResultFailure, base.Add(time.Minute+time.Second))
	gt.NoError(t, repo.PutRun(ctx, second))

	got, err := repo.GetRun(ctx, project, first.ID)
	gt.NoError(t, err)
	gt.V(t, got.Result).Equal(types.ResultSuccess)
	gt.V(t, got.Log()).Equal(first.Log())

	latest, err := repo.GetLatestRun(ctx, project)
	gt.NoError(t, err)
	gt.V(t, latest.ID).Equal(second.ID)
	gt.V(t, latest.Result).Equal(types.ResultFailure)
	gt.S(t, latest.Log()).Contains("second run")
}

// TestNotFound tests error of missing entities
func TestNotFound(t *testing.T, repo interfaces.IndexRepository) {
	ctx := context.Background()
	project := newProjectName()

	_, err := repo.GetJob(ctx, project, "main")
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	_, err = repo.GetRun(ctx, project, types.NewRunID())
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	_, err = repo.GetLatestRun(ctx, project)
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	err = repo.DeleteJob(ctx, project, "main")
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	jobs, err := repo.ListJobs(ctx, project)
	gt.NoError(t, err)
	gt.V(t, len(jobs)).Equal(0)
}
