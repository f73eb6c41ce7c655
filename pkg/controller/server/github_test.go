package server_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/brix/pkg/controller/server"
	"github.com/m-mizutani/brix/pkg/domain/mock"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

const testSecret = types.GitHubWebhookSecret("test-secret")

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRequest(eventType string, body []byte, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhook/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	return req
}

type indexRecorder struct {
	mu       sync.Mutex
	projects []types.ProjectName
	done     chan struct{}
}

func newIndexRecorder(expected int) (*indexRecorder, *mock.UseCaseMock) {
	rec := &indexRecorder{done: make(chan struct{}, expected)}
	uc := &mock.UseCaseMock{
		ProjectsByRepositoryFunc: func(owner, repo string) []types.ProjectName {
			if owner == "bob" && repo == "foo" {
				return []types.ProjectName{"bob/foo", "bob/foo-release"}
			}
			return nil
		},
		IndexProjectFunc: func(ctx context.Context, project types.ProjectName) (*model.IndexingRun, error) {
			rec.mu.Lock()
			rec.projects = append(rec.projects, project)
			rec.mu.Unlock()
			rec.done <- struct{}{}
			return &model.IndexingRun{Project: project, Result: types.ResultSuccess}, nil
		},
	}
	return rec, uc
}

func (x *indexRecorder) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-x.done:
		case <-time.After(5 * time.Second):
			t.Fatal("IndexProject was not called")
		}
	}
}

func TestGitHubWebhook(t *testing.T) {
	pushBody := []byte(`{"ref":"refs/heads/main","after":"abc123","repository":{"name":"foo","owner":{"login":"bob"}}}`)

	t.Run("push event re-indexes matching projects", func(t *testing.T) {
		rec, uc := newIndexRecorder(2)
		srv := server.New(uc, server.WithWebhookSecret(testSecret))

		w := httptest.NewRecorder()
		srv.Mux().ServeHTTP(w, newWebhookRequest("push", pushBody, sign(pushBody)))

		gt.V(t, w.Code).Equal(http.StatusAccepted)
		rec.wait(t, 2)

		rec.mu.Lock()
		defer rec.mu.Unlock()
		slices.Sort(rec.projects)
		gt.V(t, rec.projects).Equal([]types.ProjectName{"bob/foo", "bob/foo-release"})
	})

	t.Run("invalid signature is rejected", func(t *testing.T) {
		_, uc := newIndexRecorder(0)
		srv := server.New(uc, server.WithWebhookSecret(testSecret))

		w := httptest.NewRecorder()
		srv.Mux().ServeHTTP(w, newWebhookRequest("push", pushBody, "sha256=0000"))

		gt.V(t, w.Code).Equal(http.StatusBadRequest)
		gt.V(t, len(uc.ProjectsByRepositoryCalls())).Equal(0)
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		_, uc := newIndexRecorder(0)
		srv := server.New(uc, server.WithWebhookSecret(testSecret))

		w := httptest.NewRecorder()
		srv.Mux().ServeHTTP(w, newWebhookRequest("push", pushBody, ""))

		gt.V(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unknown repository does not index", func(t *testing.T) {
		_, uc := newIndexRecorder(0)
		srv := server.New(uc, server.WithWebhookSecret(testSecret))

		body := []byte(`{"ref":"refs/heads/main","repository":{"name":"bar","owner":{"login":"alice"}}}`)
		w := httptest.NewRecorder()
		srv.Mux().ServeHTTP(w, newWebhookRequest("push", body, sign(body)))

		gt.V(t, w.Code).Equal(http.StatusOK)
		gt.V(t, len(uc.IndexProjectCalls())).Equal(0)
	})

	t.Run("ignored pull request action", func(t *testing.T) {
		_, uc := newIndexRecorder(0)
		srv := server.New(uc, server.WithWebhookSecret(testSecret))

		body := []byte(`{"action":"labeled","number":1,"repository":{"name":"foo","owner":{"login":"bob"}}}`)
		w := httptest.NewRecorder()
		srv.Mux().ServeHTTP(w, newWebhookRequest("pull_request", body, sign(body)))

		gt.V(t, w.Code).Equal(http.StatusOK)
		gt.V(t, len(uc.ProjectsByRepositoryCalls())).Equal(0)
	})
}

func TestGitHubEventToRepository(t *testing.T) {
	repo := &github.Repository{
		Name:  github.String("foo"),
		Owner: &github.User{Login: github.String("bob")},
	}

	t.Run("push event", func(t *testing.T) {
		got := server.GitHubEventToRepository(&github.PushEvent{
			Repo: &github.PushEventRepository{
				Name:  github.String("foo"),
				Owner: &github.User{Login: github.String("bob")},
			},
		})
		gt.V(t, got.Owner).Equal("bob")
		gt.V(t, got.Repo).Equal("foo")
	})

	t.Run("push event with owner name only", func(t *testing.T) {
		got := server.GitHubEventToRepository(&github.PushEvent{
			Repo: &github.PushEventRepository{
				Name:  github.String("foo"),
				Owner: &github.User{Name: github.String("bob")},
			},
		})
		gt.V(t, got.Owner).Equal("bob")
	})

	t.Run("create and delete events", func(t *testing.T) {
		created := server.GitHubEventToRepository(&github.CreateEvent{Repo: repo, RefType: github.String("tag")})
		gt.V(t, created.Repo).Equal("foo")

		deleted := server.GitHubEventToRepository(&github.DeleteEvent{Repo: repo, RefType: github.String("branch")})
		gt.V(t, deleted.Owner).Equal("bob")
	})

	t.Run("pull request actions", func(t *testing.T) {
		for _, action := range []string{"opened", "synchronize", "reopened", "closed"} {
			got := server.GitHubEventToRepository(&github.PullRequestEvent{Action: github.String(action), Repo: repo})
			gt.True(t, got != nil)
		}

		got := server.GitHubEventToRepository(&github.PullRequestEvent{Action: github.String("assigned"), Repo: repo})
		gt.True(t, got == nil)
	})

	t.Run("ignored events", func(t *testing.T) {
		gt.True(t, server.GitHubEventToRepository(&github.PingEvent{}) == nil)
		gt.True(t, server.GitHubEventToRepository(&github.InstallationEvent{}) == nil)
		gt.True(t, server.GitHubEventToRepository(&github.IssuesEvent{}) == nil)
	})
}
