package executor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/brix/pkg/domain/mock"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/executor"
	"github.com/m-mizutani/gt"
)

func newJob(name string) *model.ChildJob {
	return &model.ChildJob{
		Project:         "bob/foo",
		Name:            types.JobName(name),
		HeadRevision:    "abc",
		NextBuildNumber: 3,
	}
}

func TestScheduleBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("build finishes asynchronously", func(t *testing.T) {
		release := make(chan struct{})
		exec := executor.New(executor.WithRunner(func(ctx context.Context, job *model.ChildJob) types.Result {
			<-release
			return types.ResultSuccess
		}))

		task, err := exec.ScheduleBuild(ctx, newJob("main"))
		gt.NoError(t, err)
		gt.V(t, task.Number()).Equal(3)

		_, err = task.AwaitTerminal(ctx, 10*time.Millisecond)
		gt.True(t, errors.Is(err, executor.ErrAwaitTimeout))

		close(release)
		result, err := task.AwaitTerminal(ctx, 5*time.Second)
		gt.NoError(t, err)
		gt.V(t, result.Result).Equal(types.ResultSuccess)
		gt.V(t, result.Number).Equal(3)
		gt.V(t, result.Revision).Equal(types.Revision("abc"))

		exec.Wait()
		gt.V(t, len(exec.History("bob/foo", "main"))).Equal(1)
	})

	t.Run("cancelled wait is tagged", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		exec := executor.New(executor.WithRunner(func(ctx context.Context, job *model.ChildJob) types.Result {
			<-release
			return types.ResultSuccess
		}))

		task, err := exec.ScheduleBuild(ctx, newJob("main"))
		gt.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = task.AwaitTerminal(cctx, time.Second)
		gt.Error(t, err)
		gt.V(t, types.ClassifyFailure(err)).Equal(types.FailureCancelled)
	})

	t.Run("panic in runner yields NotBuilt", func(t *testing.T) {
		exec := executor.New(executor.WithRunner(func(ctx context.Context, job *model.ChildJob) types.Result {
			panic("boom")
		}))

		task, err := exec.ScheduleBuild(ctx, newJob("main"))
		gt.NoError(t, err)
		result, err := task.AwaitTerminal(ctx, 5*time.Second)
		gt.NoError(t, err)
		gt.V(t, result.Result).Equal(types.ResultNotBuilt)
	})

	t.Run("job without head is rejected", func(t *testing.T) {
		exec := executor.New()
		job := newJob("main")
		job.HeadRevision = ""
		_, err := exec.ScheduleBuild(ctx, job)
		gt.Error(t, err)

		_, err = exec.ScheduleBuild(ctx, nil)
		gt.Error(t, err)
	})

	t.Run("build is not changed by later edits of the job", func(t *testing.T) {
		exec := executor.New()
		job := newJob("main")
		task, err := exec.ScheduleBuild(ctx, job)
		gt.NoError(t, err)
		job.HeadRevision = "changed"

		result, err := task.AwaitTerminal(ctx, 5*time.Second)
		gt.NoError(t, err)
		gt.V(t, result.Revision).Equal(types.Revision("abc"))
	})
}

func TestMarkerRunner(t *testing.T) {
	ctx := context.Background()
	src := &mock.SCMSourceMock{
		CheckPathExistsFunc: func(ctx context.Context, revision types.Revision, path string) (bool, error) {
			switch revision {
			case "with":
				return true, nil
			case "without":
				return false, nil
			}
			return false, errors.New("connection refused")
		},
	}
	runner := executor.MarkerRunner(src, "Jenkinsfile")

	gt.V(t, runner(ctx, &model.ChildJob{Name: "a", HeadRevision: "with"})).Equal(types.ResultSuccess)
	gt.V(t, runner(ctx, &model.ChildJob{Name: "b", HeadRevision: "without"})).Equal(types.ResultNotBuilt)
	gt.V(t, runner(ctx, &model.ChildJob{Name: "c", HeadRevision: "broken"})).Equal(types.ResultFailure)
	gt.V(t, src.CheckPathExistsCalls()[0].Path).Equal("Jenkinsfile")
}
