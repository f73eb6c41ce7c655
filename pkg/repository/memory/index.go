package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

type projectData struct {
	projections map[string]*model.ProjectedBranch
	jobs        map[string]*model.ChildJob
	runs        map[string]*model.IndexingRun
	latestRun   types.RunID
}

type indexRepository struct {
	mu       sync.RWMutex
	projects map[string]*projectData
}

// getOrCreate must be called with the write lock held
func (r *indexRepository) getOrCreate(project types.ProjectName) *projectData {
	data, exists := r.projects[string(project)]
	if !exists {
		data = &projectData{
			projections: make(map[string]*model.ProjectedBranch),
			jobs:        make(map[string]*model.ChildJob),
			runs:        make(map[string]*model.IndexingRun),
		}
		r.projects[string(project)] = data
	}
	return data
}

// Projection operations

func (r *indexRepository) ListProjections(ctx context.Context, project types.ProjectName) ([]*model.ProjectedBranch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.projects[string(project)]
	if !exists {
		return nil, nil
	}

	var projections []*model.ProjectedBranch
	for _, p := range data.projections {
		projections = append(projections, copyProjection(p))
	}

	return projections, nil
}

func (r *indexRepository) PutProjections(ctx context.Context, project types.ProjectName, projections []*model.ProjectedBranch) error {
	for _, p := range projections {
		if p.ProjectName == "" {
			return goerr.Wrap(repository.ErrInvalidInput, "projection name is empty",
				goerr.V("project", project),
			)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.getOrCreate(project)
	for _, p := range projections {
		data.projections[string(p.ProjectName)] = copyProjection(p)
	}

	return nil
}

// Job operations

func (r *indexRepository) GetJob(ctx context.Context, project types.ProjectName, name types.JobName) (*model.ChildJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.projects[string(project)]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "project not found",
			goerr.V("project", project),
		)
	}

	job, exists := data.jobs[string(name)]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "job not found",
			goerr.V("project", project),
			goerr.V("job", name),
		)
	}

	return job.Copy(), nil
}

func (r *indexRepository) ListJobs(ctx context.Context, project types.ProjectName) ([]*model.ChildJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.projects[string(project)]
	if !exists {
		return nil, nil
	}

	var jobs []*model.ChildJob
	for _, job := range data.jobs {
		jobs = append(jobs, job.Copy())
	}

	return jobs, nil
}

func (r *indexRepository) PutJob(ctx context.Context, job *model.ChildJob) error {
	if job.Project == "" || job.Name == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "project or job name is empty",
			goerr.V("project", job.Project),
			goerr.V("job", job.Name),
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.getOrCreate(job.Project).jobs[string(job.Name)] = job.Copy()
	return nil
}

func (r *indexRepository) DeleteJob(ctx context.Context, project types.ProjectName, name types.JobName) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.projects[string(project)]
	if !exists {
		return goerr.Wrap(repository.ErrNotFound, "project not found",
			goerr.V("project", project),
		)
	}
	if _, exists := data.jobs[string(name)]; !exists {
		return goerr.Wrap(repository.ErrNotFound, "job not found",
			goerr.V("project", project),
			goerr.V("job", name),
		)
	}

	delete(data.jobs, string(name))
	return nil
}

// Run operations

func (r *indexRepository) PutRun(ctx context.Context, run *model.IndexingRun) error {
	if run.Project == "" || run.ID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "project or run ID is empty",
			goerr.V("project", run.Project),
			goerr.V("runID", run.ID),
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.getOrCreate(run.Project)
	data.runs[string(run.ID)] = run.Copy()

	if latest, ok := data.runs[string(data.latestRun)]; !ok || !run.StartedAt.Before(latest.StartedAt) {
		data.latestRun = run.ID
	}

	return nil
}

func (r *indexRepository) GetRun(ctx context.Context, project types.ProjectName, id types.RunID) (*model.IndexingRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.projects[string(project)]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "project not found",
			goerr.V("project", project),
		)
	}

	run, exists := data.runs[string(id)]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "run not found",
			goerr.V("project", project),
			goerr.V("runID", id),
		)
	}

	return run.Copy(), nil
}

func (r *indexRepository) GetLatestRun(ctx context.Context, project types.ProjectName) (*model.IndexingRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.projects[string(project)]
	if !exists || data.latestRun == "" {
		return nil, goerr.Wrap(repository.ErrNotFound, "no run found",
			goerr.V("project", project),
		)
	}

	return data.runs[string(data.latestRun)].Copy(), nil
}

func copyProjection(p *model.ProjectedBranch) *model.ProjectedBranch {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
