package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestIndexingRun(t *testing.T) {
	now := time.Now()
	run := model.NewIndexingRun("bob/foo", now)
	gt.V(t, run.State).Equal(types.StateEnumerating)
	gt.V(t, run.ID).NotEqual(types.RunID(""))

	gt.True(t, run.Transition(types.StateFiltering))
	gt.True(t, run.Appendf("found %d refs", 3))
	gt.True(t, run.Finish(types.ResultFailure, now.Add(time.Second)))

	t.Run("terminal run is immutable", func(t *testing.T) {
		gt.False(t, run.Appendf("late line"))
		gt.False(t, run.Transition(types.StateDiffing))
		gt.False(t, run.Finish(types.ResultSuccess, now))
		gt.V(t, run.Result).Equal(types.ResultFailure)
		gt.V(t, run.EndedAt).Equal(now.Add(time.Second))
	})

	t.Run("log keeps lines in order", func(t *testing.T) {
		gt.V(t, run.Log()).Equal("> filtering\nfound 3 refs\nFinished: FAILURE")
	})

	t.Run("copy is independent", func(t *testing.T) {
		c := run.Copy()
		c.Lines[0] = "changed"
		gt.V(t, run.Lines[0]).Equal("> filtering")
	})
}

func TestChildJob(t *testing.T) {
	now := time.Now()
	job := model.NewChildJob("bob/foo", candidate("main", "a1"), now)
	gt.V(t, job.NextBuildNumber).Equal(1)
	gt.True(t, job.NeedsBuild())

	job.RecordBuild(1, now)
	gt.False(t, job.NeedsBuild())
	gt.V(t, job.NextBuildNumber).Equal(2)
	gt.V(t, job.LastBuiltRevision).Equal(types.Revision("a1"))

	job.HeadRevision = "a2"
	gt.True(t, job.NeedsBuild())

	c := job.Copy()
	c.Builds[0].Number = 99
	gt.V(t, job.Builds[0].Number).Equal(1)
}

func TestProjectValidate(t *testing.T) {
	t.Run("defaults are filled", func(t *testing.T) {
		p := &model.Project{Owner: "bob", Repo: "foo", Traits: model.DefaultTraitConfig()}
		p.SetDefaults()
		gt.V(t, p.Name).Equal(types.ProjectName("bob/foo"))
		gt.V(t, p.MarkerFile).Equal("Jenkinsfile")
		gt.V(t, p.SCM).Equal("git")
		gt.NoError(t, p.Validate())
	})

	t.Run("missing repo is rejected", func(t *testing.T) {
		p := &model.Project{Name: "x", Owner: "bob", MarkerFile: "Jenkinsfile", Traits: model.DefaultTraitConfig()}
		gt.Error(t, p.Validate())
	})

	t.Run("invalid strategy is rejected", func(t *testing.T) {
		p := &model.Project{Owner: "bob", Repo: "foo"}
		p.SetDefaults()
		p.Traits.OriginPRStrategies = []types.CheckoutStrategy{"REBASE"}
		gt.Error(t, p.Validate())
	})

	t.Run("invalid fork trust is rejected", func(t *testing.T) {
		p := &model.Project{Owner: "bob", Repo: "foo"}
		p.SetDefaults()
		p.Traits.ForkTrust = "friends"
		gt.Error(t, p.Validate())
	})
}
