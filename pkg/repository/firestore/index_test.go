package firestore_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/brix/pkg/repository/firestore"
	"github.com/m-mizutani/brix/pkg/repository/testhelper"
	"github.com/m-mizutani/brix/pkg/utils/testutil"
	"github.com/m-mizutani/gt"
)

func TestFirestoreIndexRepository(t *testing.T) {
	projectID := testutil.GetEnvOrSkip(t, "TEST_FIRESTORE_PROJECT_ID")
	databaseID := testutil.GetEnvOrSkip(t, "TEST_FIRESTORE_DATABASE_ID")

	ctx := context.Background()
	repo, err := firestore.New(ctx, projectID, databaseID)
	gt.NoError(t, err)

	testhelper.TestAll(t, repo)
}

func TestToDocID(t *testing.T) {
	id, err := firestore.ToDocID("bob/foo")
	gt.NoError(t, err)
	gt.V(t, id).Equal("bob:foo")

	id, err = firestore.ToDocID("feature/bar/baz")
	gt.NoError(t, err)
	gt.V(t, id).Equal("feature:bar:baz")

	id, err = firestore.ToDocID("main")
	gt.NoError(t, err)
	gt.V(t, id).Equal("main")

	_, err = firestore.ToDocID("")
	gt.Error(t, err)

	_, err = firestore.ToDocID("bad:name")
	gt.Error(t, err)
}
