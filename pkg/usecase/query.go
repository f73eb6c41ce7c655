package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// GetJob returns the child job. repository.ErrNotFound is returned if it does not exist.
func (x *UseCase) GetJob(ctx context.Context, project types.ProjectName, name types.JobName) (*model.ChildJob, error) {
	job, err := x.clients.Repository().GetJob(ctx, project, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get job", goerr.V("project", project), goerr.V("job", name))
	}
	return job, nil
}

// ListJobs returns child jobs of the project in name order
func (x *UseCase) ListJobs(ctx context.Context, project types.ProjectName) ([]*model.ChildJob, error) {
	jobs, err := x.clients.Repository().ListJobs(ctx, project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list jobs", goerr.V("project", project))
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}

// GetLastBuiltRevision returns the head revision of the last scheduled build of the job
func (x *UseCase) GetLastBuiltRevision(ctx context.Context, project types.ProjectName, name types.JobName) (types.Revision, error) {
	job, err := x.GetJob(ctx, project, name)
	if err != nil {
		return "", err
	}
	return job.LastBuiltRevision, nil
}

// GetLatestRun returns the most recent indexing run of the project
func (x *UseCase) GetLatestRun(ctx context.Context, project types.ProjectName) (*model.IndexingRun, error) {
	if _, ok := x.projects[project]; !ok {
		return nil, goerr.Wrap(types.ErrProjectNotFound, "project is not configured", goerr.V("project", project))
	}

	run, err := x.clients.Repository().GetLatestRun(ctx, project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest run", goerr.V("project", project))
	}
	return run, nil
}

// ProjectsByRepository returns names of projects indexing the repository. GitHub owner and repository names are compared case-insensitively.
func (x *UseCase) ProjectsByRepository(owner, repo string) []types.ProjectName {
	var names []types.ProjectName
	for _, name := range x.Projects() {
		p := x.projects[name].project
		if strings.EqualFold(p.Owner, owner) && strings.EqualFold(p.Repo, repo) {
			names = append(names, name)
		}
	}
	return names
}
