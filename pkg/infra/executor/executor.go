package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/metrics"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/semaphore"
)

// ErrAwaitTimeout is returned by AwaitTerminal when the build does not finish in time
var ErrAwaitTimeout = goerr.New("build did not reach terminal state in time")

// Runner executes one build and returns its result
type Runner func(ctx context.Context, job *model.ChildJob) types.Result

// SucceedRunner finishes every build with success immediately
func SucceedRunner(_ context.Context, _ *model.ChildJob) types.Result {
	return types.ResultSuccess
}

// Executor runs builds in background goroutines, at most concurrency at a time
type Executor struct {
	runner Runner
	sem    *semaphore.Weighted
	wg     sync.WaitGroup

	mu      sync.RWMutex
	history map[string][]*model.BuildResult
}

var _ interfaces.Executor = (*Executor)(nil)

type Option func(*Executor)

func WithRunner(runner Runner) Option {
	return func(x *Executor) {
		x.runner = runner
	}
}

func WithConcurrency(n int64) Option {
	return func(x *Executor) {
		if n > 0 {
			x.sem = semaphore.NewWeighted(n)
		}
	}
}

func New(options ...Option) *Executor {
	x := &Executor{
		runner:  SucceedRunner,
		sem:     semaphore.NewWeighted(4),
		history: make(map[string][]*model.BuildResult),
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

func historyKey(project types.ProjectName, job types.JobName) string {
	return string(project) + "\x00" + string(job)
}

// ScheduleBuild implements interfaces.Executor. The build number is job.NextBuildNumber.
// The build keeps running after ctx is cancelled; ctx only provides logger and values.
func (x *Executor) ScheduleBuild(ctx context.Context, job *model.ChildJob) (interfaces.BuildTask, error) {
	if job == nil || job.Name == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "job is empty")
	}
	if job.HeadRevision == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "job has no head revision", goerr.V("job", job.Name))
	}

	snapshot := job.Copy()
	t := &task{
		number: snapshot.NextBuildNumber,
		done:   make(chan struct{}),
	}

	bgCtx := context.WithoutCancel(ctx)
	logger := logging.From(ctx).With(
		slog.Any("job", snapshot.Name),
		slog.Int("build", t.number),
	)

	x.wg.Add(1)
	go func() {
		defer x.wg.Done()
		defer close(t.done)

		result := &model.BuildResult{
			Project:  snapshot.Project,
			Job:      snapshot.Name,
			Number:   t.number,
			Revision: snapshot.HeadRevision,
			CloneURI: snapshot.CloneURI,
		}

		if err := x.sem.Acquire(bgCtx, 1); err != nil {
			result.Result = types.ResultAborted
			t.result = result
			return
		}
		defer x.sem.Release(1)

		result.StartedAt = time.Now()
		result.Result = x.run(bgCtx, snapshot)
		result.EndedAt = time.Now()
		t.result = result

		x.mu.Lock()
		key := historyKey(snapshot.Project, snapshot.Name)
		x.history[key] = append(x.history[key], result)
		x.mu.Unlock()

		metrics.CountBuildResult(result)
		logger.Info("build finished",
			slog.Any("result", result.Result),
			slog.Duration("elapsed", result.EndedAt.Sub(result.StartedAt)),
		)
	}()

	return t, nil
}

func (x *Executor) run(ctx context.Context, job *model.ChildJob) (result types.Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("build runner panicked", slog.String("panic", fmt.Sprint(r)))
			result = types.ResultNotBuilt
		}
	}()
	return x.runner(ctx, job)
}

// Wait blocks until all scheduled builds finish
func (x *Executor) Wait() {
	x.wg.Wait()
}

// History returns finished builds of the job in completion order
func (x *Executor) History(project types.ProjectName, job types.JobName) []*model.BuildResult {
	x.mu.RLock()
	defer x.mu.RUnlock()

	results := x.history[historyKey(project, job)]
	out := make([]*model.BuildResult, len(results))
	for i, r := range results {
		v := *r
		out[i] = &v
	}
	return out
}

type task struct {
	number int
	done   chan struct{}
	result *model.BuildResult
}

func (x *task) Number() int {
	return x.number
}

// AwaitTerminal implements interfaces.BuildTask
func (x *task) AwaitTerminal(ctx context.Context, timeout time.Duration) (*model.BuildResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-x.done:
		v := *x.result
		return &v, nil
	case <-ctx.Done():
		return nil, goerr.Wrap(ctx.Err(), "interrupted while waiting for build",
			goerr.V("build", x.number),
			goerr.T(types.TagCancelled),
		)
	case <-timer.C:
		return nil, goerr.Wrap(ErrAwaitTimeout, "build is still running",
			goerr.V("build", x.number),
			goerr.V("timeout", timeout),
		)
	}
}
