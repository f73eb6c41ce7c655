package badger_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/repository/badger"
	"github.com/m-mizutani/brix/pkg/repository/testhelper"
	"github.com/m-mizutani/gt"
)

func TestBadgerIndexRepository(t *testing.T) {
	repo, err := badger.New(badger.Config{InMemory: true})
	gt.NoError(t, err)
	t.Cleanup(func() { gt.NoError(t, repo.Close()) })

	testhelper.TestAll(t, repo)
}

func TestBadgerPersistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := badger.New(badger.Config{Path: dir, SyncWrites: true})
	gt.NoError(t, err)
	gt.NoError(t, repo.PutJob(ctx, &model.ChildJob{Project: "bob/foo", Name: "main", NextBuildNumber: 2}))
	gt.NoError(t, repo.Close())

	reopened, err := badger.New(badger.Config{Path: dir})
	gt.NoError(t, err)
	defer func() { gt.NoError(t, reopened.Close()) }()

	job, err := reopened.GetJob(ctx, "bob/foo", "main")
	gt.NoError(t, err)
	gt.V(t, job.NextBuildNumber).Equal(2)
}

func TestBadgerRequiresPath(t *testing.T) {
	_, err := badger.New(badger.Config{})
	gt.Error(t, err)
}
