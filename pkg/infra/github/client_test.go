package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/github"
	"github.com/m-mizutani/gt"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	gt.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestSource(t *testing.T, mux *http.ServeMux) *github.Source {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return gt.R1(github.New("bob", "foo", srv.Client(), github.WithBaseURL(srv.URL))).NoError(t)
}

func TestListBranches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/bob/foo/branches", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"name": "main", "commit": map[string]any{"sha": "aaaa"}},
			{"name": "feature/x", "commit": map[string]any{"sha": "bbbb"}},
		})
	})
	mux.HandleFunc("/repos/bob/foo/tags", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"name": "v1.0.0", "commit": map[string]any{"sha": "cccc"}},
		})
	})
	mux.HandleFunc("/repos/bob/foo/pulls", func(w http.ResponseWriter, r *http.Request) {
		gt.V(t, r.URL.Query().Get("state")).Equal("open")
		writeJSON(t, w, []map[string]any{
			{
				"number": 7,
				"user":   map[string]any{"login": "alice"},
				"head": map[string]any{
					"ref": "fix",
					"sha": "dddd",
					"repo": map[string]any{
						"name":  "foo",
						"owner": map[string]any{"login": "alice"},
					},
				},
				"base": map[string]any{"ref": "main"},
			},
		})
	})

	src := newTestSource(t, mux)
	refs := gt.R1(src.ListBranches(context.Background())).NoError(t)
	gt.V(t, len(refs)).Equal(4)

	gt.V(t, refs[0].Name).Equal("main")
	gt.V(t, refs[0].Kind).Equal(types.RefKindBranch)
	gt.V(t, refs[0].HeadRevision).Equal(types.Revision("aaaa"))
	gt.V(t, refs[1].Name).Equal("feature/x")

	gt.V(t, refs[2].Name).Equal("v1.0.0")
	gt.V(t, refs[2].Kind).Equal(types.RefKindTag)

	pr := refs[3]
	gt.V(t, pr.Kind).Equal(types.RefKindPullRequest)
	gt.V(t, pr.HeadRevision).Equal(types.Revision("dddd"))
	gt.V(t, pr.PullRequest.Number).Equal(7)
	gt.V(t, pr.PullRequest.SourceOwner).Equal("alice")
	gt.V(t, pr.PullRequest.TargetBranch).Equal("main")
	gt.V(t, pr.PullRequest.Submitter).Equal("alice")
	gt.True(t, pr.PullRequest.IsFork("bob", "foo"))
}

func TestListBranchesTransportError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/bob/foo/branches", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	src := newTestSource(t, mux)
	_, err := src.ListBranches(context.Background())
	gt.Error(t, err)
	gt.V(t, types.ClassifyFailure(err)).Equal(types.FailureTransport)
}

func TestListBranchesCancelled(t *testing.T) {
	mux := http.NewServeMux()
	src := newTestSource(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.ListBranches(ctx)
	gt.Error(t, err)
	gt.V(t, types.ClassifyFailure(err)).Equal(types.FailureCancelled)
}

func TestResolveCommit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/bob/foo/commits/aaaa", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"sha": "aaaa",
			"commit": map[string]any{
				"message":   "initial commit",
				"author":    map[string]any{"name": "Bob", "date": "2024-01-02T03:04:05Z"},
				"committer": map[string]any{"name": "Bob", "date": "2024-01-02T03:04:05Z"},
			},
		})
	})

	src := newTestSource(t, mux)
	commit := gt.R1(src.ResolveCommit(context.Background(), "aaaa")).NoError(t)
	gt.V(t, commit.Revision).Equal(types.Revision("aaaa"))
	gt.V(t, commit.Author).Equal("Bob")
	gt.V(t, commit.Message).Equal("initial commit")
	gt.V(t, commit.Timestamp.Year()).Equal(2024)
}

func TestCheckPathExists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/bob/foo/contents/Jenkinsfile", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("ref") {
		case "aaaa":
			writeJSON(t, w, map[string]any{
				"type": "file",
				"name": "Jenkinsfile",
				"path": "Jenkinsfile",
			})
		case "bbbb":
			w.WriteHeader(http.StatusNotFound)
			writeJSON(t, w, map[string]any{"message": "Not Found"})
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	src := newTestSource(t, mux)
	ctx := context.Background()

	t.Run("file exists", func(t *testing.T) {
		gt.True(t, gt.R1(src.CheckPathExists(ctx, "aaaa", "Jenkinsfile")).NoError(t))
	})

	t.Run("file does not exist", func(t *testing.T) {
		gt.False(t, gt.R1(src.CheckPathExists(ctx, "bbbb", "Jenkinsfile")).NoError(t))
	})

	t.Run("server error", func(t *testing.T) {
		_, err := src.CheckPathExists(ctx, "cccc", "Jenkinsfile")
		gt.Error(t, err)
		gt.V(t, types.ClassifyFailure(err)).Equal(types.FailureTransport)
	})
}

func TestResolveCloneURI(t *testing.T) {
	var called int32
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/bob/foo", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&called, 1)
		writeJSON(t, w, map[string]any{
			"name":      "foo",
			"clone_url": "https://github.com/bob/foo.git",
			"ssh_url":   "git@github.com:bob/foo.git",
		})
	})

	src := newTestSource(t, mux)
	ctx := context.Background()

	uri := gt.R1(src.ResolveCloneURI(ctx, &interfaces.CloneURIInput{Protocol: "https"})).NoError(t)
	gt.V(t, uri).Equal("https://github.com/bob/foo.git")

	uri = gt.R1(src.ResolveCloneURI(ctx, &interfaces.CloneURIInput{Protocol: "ssh", Owner: "bob", Repo: "foo"})).NoError(t)
	gt.V(t, uri).Equal("git@github.com:bob/foo.git")

	_, err := src.ResolveCloneURI(ctx, &interfaces.CloneURIInput{Protocol: "ftp"})
	gt.Error(t, err)

	gt.V(t, atomic.LoadInt32(&called)).Equal(int32(1))
}

func TestNewRequiresRepository(t *testing.T) {
	_, err := github.New("", "foo", http.DefaultClient)
	gt.Error(t, err)
}
