package gitlocal_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/gitlocal"
	"github.com/m-mizutani/gt"
)

var signature = &object.Signature{
	Name:  "Bob",
	Email: "bob@example.com",
	When:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, msg string) plumbing.Hash {
	t.Helper()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(msg), 0644))

	wt := gt.R1(repo.Worktree()).NoError(t)
	gt.R1(wt.Add(name)).NoError(t)
	return gt.R1(wt.Commit(msg, &git.CommitOptions{Author: signature})).NoError(t)
}

func setupRepository(t *testing.T) (string, plumbing.Hash, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()
	repo := gt.R1(git.PlainInit(dir, false)).NoError(t)

	first := commitFile(t, repo, dir, "README.md", "initial commit")
	second := commitFile(t, repo, dir, "Jenkinsfile", "add marker")

	gt.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("old"), first)))
	gt.R1(repo.CreateTag("v1.0.0", second, &git.CreateTagOptions{Tagger: signature, Message: "release"})).NoError(t)
	gt.R1(repo.CreateTag("v0.1.0", first, nil)).NoError(t)

	return dir, first, second
}

func TestListBranches(t *testing.T) {
	dir, first, second := setupRepository(t)
	src := gt.R1(gitlocal.Open(dir)).NoError(t)

	refs := gt.R1(src.ListBranches(context.Background())).NoError(t)
	gt.V(t, len(refs)).Equal(4)

	revs := map[string]types.Revision{}
	kinds := map[string]types.RefKind{}
	for _, ref := range refs {
		revs[ref.Name] = ref.HeadRevision
		kinds[ref.Name] = ref.Kind
		gt.V(t, ref.LastCommitAt.Unix()).Equal(signature.When.Unix())
	}

	gt.V(t, revs["old"]).Equal(types.Revision(first.String()))
	gt.V(t, kinds["old"]).Equal(types.RefKindBranch)
	gt.V(t, revs["v1.0.0"]).Equal(types.Revision(second.String()))
	gt.V(t, kinds["v1.0.0"]).Equal(types.RefKindTag)
	gt.V(t, revs["v0.1.0"]).Equal(types.Revision(first.String()))
}

func TestListBranchesCancelled(t *testing.T) {
	dir, _, _ := setupRepository(t)
	src := gt.R1(gitlocal.Open(dir)).NoError(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.ListBranches(ctx)
	gt.Error(t, err)
	gt.V(t, types.ClassifyFailure(err)).Equal(types.FailureCancelled)
}

func TestResolveCommit(t *testing.T) {
	dir, _, second := setupRepository(t)
	src := gt.R1(gitlocal.Open(dir)).NoError(t)
	ctx := context.Background()

	commit := gt.R1(src.ResolveCommit(ctx, types.Revision(second.String()))).NoError(t)
	gt.V(t, commit.Author).Equal("Bob")
	gt.V(t, commit.Message).Equal("add marker")

	_, err := src.ResolveCommit(ctx, "0000000000000000000000000000000000000001")
	gt.Error(t, err)
	gt.V(t, types.ClassifyFailure(err)).Equal(types.FailureTransport)
}

func TestCheckPathExists(t *testing.T) {
	dir, first, second := setupRepository(t)
	src := gt.R1(gitlocal.Open(dir)).NoError(t)
	ctx := context.Background()

	gt.True(t, gt.R1(src.CheckPathExists(ctx, types.Revision(second.String()), "Jenkinsfile")).NoError(t))
	gt.False(t, gt.R1(src.CheckPathExists(ctx, types.Revision(first.String()), "Jenkinsfile")).NoError(t))
}

func TestResolveCloneURI(t *testing.T) {
	dir, _, _ := setupRepository(t)
	ctx := context.Background()

	t.Run("without origin", func(t *testing.T) {
		src := gt.R1(gitlocal.Open(dir)).NoError(t)
		uri := gt.R1(src.ResolveCloneURI(ctx, &interfaces.CloneURIInput{})).NoError(t)
		gt.True(t, strings.HasPrefix(uri, "file://"))
	})

	t.Run("with origin", func(t *testing.T) {
		repo := gt.R1(git.PlainOpen(dir)).NoError(t)
		gt.R1(repo.CreateRemote(&config.RemoteConfig{
			Name: "origin",
			URLs: []string{"git@github.com:bob/foo.git"},
		})).NoError(t)

		src := gt.R1(gitlocal.Open(dir)).NoError(t)
		uri := gt.R1(src.ResolveCloneURI(ctx, &interfaces.CloneURIInput{})).NoError(t)
		gt.V(t, uri).Equal("git@github.com:bob/foo.git")

		owner, repoName, err := src.DetectGitHubRepository()
		gt.NoError(t, err)
		gt.V(t, owner).Equal("bob")
		gt.V(t, repoName).Equal("foo")
	})
}

func TestParseGitHubURL(t *testing.T) {
	testCases := map[string]struct {
		url   string
		owner string
		repo  string
		err   bool
	}{
		"ssh":       {url: "git@github.com:bob/foo.git", owner: "bob", repo: "foo"},
		"https":     {url: "https://github.com/bob/foo.git", owner: "bob", repo: "foo"},
		"no suffix": {url: "https://github.com/bob/foo", owner: "bob", repo: "foo"},
		"other":     {url: "https://example.com/bob/foo.git", err: true},
		"nested":    {url: "https://github.com/bob/foo/bar", err: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			owner, repo, err := gitlocal.ParseGitHubURL(tc.url)
			if tc.err {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.V(t, owner).Equal(tc.owner)
			gt.V(t, repo).Equal(tc.repo)
		})
	}
}
