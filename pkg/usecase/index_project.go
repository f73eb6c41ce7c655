package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m-mizutani/brix/pkg/domain/discovery"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/metrics"
	"github.com/m-mizutani/brix/pkg/repository"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// IndexProject runs one scan of the project and returns the finished run. The error is
// not nil only if the project can not be scanned at all; a failure during the scan is
// reported by the result of the run.
func (x *UseCase) IndexProject(ctx context.Context, name types.ProjectName) (*model.IndexingRun, error) {
	entry, ok := x.projects[name]
	if !ok {
		return nil, goerr.Wrap(types.ErrProjectNotFound, "project is not configured", goerr.V("project", name))
	}
	if err := entry.project.Validate(); err != nil {
		return nil, err
	}
	if entry.source == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "project has no SCM source", goerr.V("project", name))
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	ctx = logging.With(ctx, logging.From(ctx).With(slog.Any("project", name)))

	s := &scan{
		uc:     x,
		entry:  entry,
		run:    model.NewIndexingRun(name, logging.CtxTime(ctx)),
		result: types.ResultSuccess,
	}

	scanCtx, cancel := context.WithTimeout(ctx, x.scanTimeout)
	s.execute(scanCtx)
	cancel()

	s.run.Finish(s.result, logging.CtxTime(ctx))
	x.finishRun(ctx, s.run)

	return s.run.Copy(), nil
}

// scan is the state of one IndexProject call
type scan struct {
	uc     *UseCase
	entry  *projectEntry
	run    *model.IndexingRun
	result types.Result
}

// resolution is the outcome of resolving one discovery decision
type resolution struct {
	decision  *model.DiscoveryDecision
	commit    *model.CommitMeta
	buildable bool
	stage     string
	err       error
}

const (
	stageResolveCommit = "resolve commit"
	stageCheckPath     = "check marker file"
)

// callSCM converts a panic in the adapter to a fatal error
func callSCM[T any](f func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New(fmt.Sprintf("recovered panic: %v", r), goerr.T(types.TagFatal))
		}
	}()
	return f()
}

// fail records err in the log and degrades the result according to the failure kind
func (x *scan) fail(ctx context.Context, msg string, err error) {
	kind := types.ClassifyFailure(err)
	x.result = x.result.Worse(kind.Result())
	x.run.Appendf("ERROR: %s: %s", msg, err.Error())

	logging.From(ctx).Warn(msg,
		slog.Any("error", err),
		slog.String("kind", kind.String()),
		slog.Any("result", x.result),
	)
}

// interrupted returns true if the scan must stop without changing any state
func (x *scan) interrupted(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		x.fail(ctx, "Indexing interrupted", goerr.Wrap(err, "scan context is done", goerr.T(types.TagCancelled)))
		return true
	}
	return x.result == types.ResultAborted || x.result == types.ResultNotBuilt
}

func (x *scan) execute(ctx context.Context) {
	project := x.entry.project
	x.run.Appendf("Looking up %s/%s for branches", project.Owner, project.Repo)

	refs, err := callSCM(func() ([]*model.RemoteRef, error) {
		return x.entry.source.ListBranches(ctx)
	})
	if err != nil {
		x.fail(ctx, "Failed to list branches", err)
		return
	}
	x.run.Appendf("%d refs found", len(refs))

	x.run.Transition(types.StateFiltering)
	decisions := x.entry.chain.Apply(&discovery.Request{Owner: project.Owner, Repo: project.Repo}, refs)
	x.run.Appendf("%d build targets discovered", len(decisions))

	current, protected := x.resolve(ctx, decisions)
	if x.interrupted(ctx) {
		x.run.Appendf("No changes applied")
		return
	}

	x.run.Transition(types.StateDiffing)
	repo := x.uc.clients.Repository()
	previous, err := repo.ListProjections(ctx, project.Name)
	if err != nil {
		x.fail(ctx, "Failed to load branch projections", err)
		return
	}

	diff := model.DiffProjections(previous, current)
	diff.Protect(protected)
	x.run.Appendf("%d added, %d updated, %d unchanged, %d removed",
		len(diff.Added), len(diff.Updated), len(diff.Unchanged), len(diff.Removed))

	if x.interrupted(ctx) {
		x.run.Appendf("No changes applied")
		return
	}

	// Materialization is not interrupted once started
	x.run.Transition(types.StateMaterializing)
	jobs, ok := x.materialize(context.WithoutCancel(ctx), previous, diff)
	if !ok {
		return
	}

	if x.interrupted(ctx) {
		x.run.Appendf("%d builds not scheduled", len(jobs))
		return
	}

	x.run.Transition(types.StateScheduling)
	x.schedule(ctx, jobs)
}

// resolve looks up commit and marker file of each decision in parallel. It returns the
// buildable candidates, and names of refs skipped by an error that must keep their jobs.
func (x *scan) resolve(ctx context.Context, decisions []*model.DiscoveryDecision) ([]*model.Candidate, map[types.JobName]struct{}) {
	results := make([]*resolution, len(decisions))

	var eg errgroup.Group
	eg.SetLimit(x.uc.parallelism)
	for i, d := range decisions {
		eg.Go(func() error {
			results[i] = x.resolveOne(ctx, d)
			return nil
		})
	}
	_ = eg.Wait()

	marker := x.entry.project.MarkerFile
	var current []*model.Candidate
	protected := make(map[types.JobName]struct{})

	for _, r := range results {
		name, rev := r.decision.Name, r.decision.Ref.HeadRevision

		switch {
		case r.err != nil && r.stage == stageResolveCommit:
			protected[name] = struct{}{}
			switch types.ClassifyFailure(r.err) {
			case types.FailureCancelled, types.FailureFatal:
				x.fail(ctx, fmt.Sprintf("Failed to resolve commit %s of %s", rev, name), r.err)
			default:
				x.run.Appendf("Skipped %s: unable to resolve commit %s: %s", name, rev, r.err.Error())
				logging.From(ctx).Warn("skipped ref with unresolved commit",
					slog.Any("job", name),
					slog.Any("revision", rev),
					slog.Any("error", r.err),
				)
			}

		case r.err != nil:
			protected[name] = struct{}{}
			x.fail(ctx, fmt.Sprintf("Failed to check %s in %s", marker, name), r.err)

		case !r.buildable:
			x.run.Appendf("'%s' not found in %s, does not meet criteria", marker, name)

		default:
			x.run.Appendf("Met criteria: %s (%s)", name, rev)
			current = append(current, &model.Candidate{Decision: r.decision, Commit: r.commit})
		}
	}

	return current, protected
}

func (x *scan) resolveOne(ctx context.Context, d *model.DiscoveryDecision) *resolution {
	src := x.entry.source
	rev := d.Ref.HeadRevision

	commit, err := callSCM(func() (*model.CommitMeta, error) {
		return src.ResolveCommit(ctx, rev)
	})
	if err != nil {
		return &resolution{decision: d, stage: stageResolveCommit, err: err}
	}

	exists, err := callSCM(func() (bool, error) {
		return src.CheckPathExists(ctx, rev, x.entry.project.MarkerFile)
	})
	if err != nil {
		return &resolution{decision: d, stage: stageCheckPath, err: err}
	}

	return &resolution{decision: d, commit: commit, buildable: exists}
}

// materialize applies the diff to jobs and projections. It returns jobs that need a
// build, and false if the repository failed.
func (x *scan) materialize(ctx context.Context, previous []*model.ProjectedBranch, diff *model.ProjectionDiff) ([]*model.ChildJob, bool) {
	repo := x.uc.clients.Repository()
	project := x.entry.project.Name
	now := logging.CtxTime(ctx)

	var projections []*model.ProjectedBranch
	var builds []*model.ChildJob

	upsert := func(c *model.Candidate, created, moved string) error {
		job, err := repo.GetJob(ctx, project, c.Name())
		switch {
		case errors.Is(err, repository.ErrNotFound):
			job = model.NewChildJob(project, c, now)
			x.run.Appendf(created, c.Name())
		case err != nil:
			return err
		case job.HeadRevision != c.HeadRevision():
			job.HeadRevision = c.HeadRevision()
			job.UpdatedAt = now
			x.run.Appendf(moved, c.Name(), c.HeadRevision())
		}

		if err := repo.PutJob(ctx, job); err != nil {
			return err
		}
		if job.NeedsBuild() {
			builds = append(builds, job)
		}

		projections = append(projections, &model.ProjectedBranch{
			ProjectName:  c.Name(),
			HeadRevision: c.HeadRevision(),
			Alive:        true,
			UpdatedAt:    now,
		})
		return nil
	}

	for _, c := range diff.Added {
		if err := upsert(c, "Created job %s", "Revived job %s at %s"); err != nil {
			x.fail(ctx, fmt.Sprintf("Failed to create job %s", c.Name()), err)
			return nil, false
		}
	}
	for _, c := range diff.Updated {
		if err := upsert(c, "Created job %s", "Changes detected in %s (%s)"); err != nil {
			x.fail(ctx, fmt.Sprintf("Failed to update job %s", c.Name()), err)
			return nil, false
		}
	}

	// Unchanged refs are only written if the job is missing or its head is not built yet
	for _, c := range diff.Unchanged {
		job, err := repo.GetJob(ctx, project, c.Name())
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if err := upsert(c, "Recreated missing job %s", "Changes detected in %s (%s)"); err != nil {
				x.fail(ctx, fmt.Sprintf("Failed to recreate job %s", c.Name()), err)
				return nil, false
			}
		case err != nil:
			x.fail(ctx, fmt.Sprintf("Failed to get job %s", c.Name()), err)
			return nil, false
		case job.NeedsBuild():
			builds = append(builds, job)
		}
	}

	for _, p := range diff.Removed {
		if x.result != types.ResultSuccess {
			x.run.Appendf("Deferred removal of %s until a scan without errors", p.ProjectName)
			continue
		}

		if err := repo.DeleteJob(ctx, project, p.ProjectName); err != nil && !errors.Is(err, repository.ErrNotFound) {
			x.fail(ctx, fmt.Sprintf("Failed to delete job %s", p.ProjectName), err)
			return nil, false
		}
		x.run.Appendf("Removed job %s, branch no longer exists", p.ProjectName)

		dead := *p
		dead.Alive = false
		dead.UpdatedAt = now
		projections = append(projections, &dead)
	}

	if len(projections) > 0 {
		if err := repo.PutProjections(ctx, project, projections); err != nil {
			x.fail(ctx, "Failed to save branch projections", err)
			return nil, false
		}
	}

	logging.From(ctx).Debug("materialized branch projections",
		slog.Int("previous", len(previous)),
		slog.Int("written", len(projections)),
		slog.Int("builds", len(builds)),
	)

	return builds, true
}

// schedule enqueues builds and records the build number in each job
func (x *scan) schedule(ctx context.Context, jobs []*model.ChildJob) {
	repo := x.uc.clients.Repository()
	exec := x.uc.clients.Executor()
	now := logging.CtxTime(ctx)

	project := x.entry.project
	for _, job := range jobs {
		uri, err := callSCM(func() (string, error) {
			return x.entry.source.ResolveCloneURI(ctx, &interfaces.CloneURIInput{
				Protocol:      project.CloneProtocol,
				CredentialsID: project.CredentialsID,
				Owner:         project.Owner,
				Repo:          project.Repo,
			})
		})
		if err != nil {
			x.fail(ctx, fmt.Sprintf("Failed to resolve clone URI of %s", job.Name), err)
			continue
		}
		job.CloneURI = uri

		task, err := exec.ScheduleBuild(ctx, job)
		if err != nil {
			x.fail(ctx, fmt.Sprintf("Failed to schedule build of %s", job.Name), err)
			continue
		}

		job.RecordBuild(task.Number(), now)
		if err := repo.PutJob(context.WithoutCancel(ctx), job); err != nil {
			x.fail(ctx, fmt.Sprintf("Failed to save job %s", job.Name), err)
			continue
		}

		metrics.CountBuildScheduled(job.Project)
		x.run.Appendf("Scheduled build #%d of %s (%s) from %s", task.Number(), job.Name, job.HeadRevision, job.CloneURI)
	}

	if len(jobs) == 0 {
		x.run.Appendf("No builds scheduled")
	}
}
