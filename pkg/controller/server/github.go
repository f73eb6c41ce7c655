package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/utils/errutil"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// githubRepository is the repository that caused a webhook event
type githubRepository struct {
	Owner string
	Repo  string
}

// validateGitHubEvent verifies the signature and parses the webhook event. Signature is not verified if secret is empty.
func validateGitHubEvent(r *http.Request, secret types.GitHubWebhookSecret) (any, error) {
	payload, err := github.ValidatePayload(r, []byte(secret))
	if err != nil {
		return nil, goerr.Wrap(err, "validating payload")
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		return nil, goerr.Wrap(err, "parsing webhook", goerr.V("event_type", github.WebHookType(r)))
	}

	return event, nil
}

// githubEventToRepository returns the repository to re-index, or nil if the event does not change refs
func githubEventToRepository(event any) *githubRepository {
	switch ev := event.(type) {
	case *github.PushEvent:
		owner := ev.GetRepo().GetOwner().GetLogin()
		if owner == "" {
			owner = ev.GetRepo().GetOwner().GetName()
		}
		return &githubRepository{Owner: owner, Repo: ev.GetRepo().GetName()}

	case *github.CreateEvent:
		return &githubRepository{Owner: ev.GetRepo().GetOwner().GetLogin(), Repo: ev.GetRepo().GetName()}

	case *github.DeleteEvent:
		return &githubRepository{Owner: ev.GetRepo().GetOwner().GetLogin(), Repo: ev.GetRepo().GetName()}

	case *github.PullRequestEvent:
		switch ev.GetAction() {
		case "opened", "synchronize", "reopened", "closed":
		default:
			logging.Default().Debug("ignore PR event", slog.String("action", ev.GetAction()))
			return nil
		}
		return &githubRepository{Owner: ev.GetRepo().GetOwner().GetLogin(), Repo: ev.GetRepo().GetName()}

	case *github.PingEvent, *github.InstallationEvent, *github.InstallationRepositoriesEvent:
		return nil // ignore

	default:
		logging.Default().Warn("unsupported event", slog.Any("event", fmt.Sprintf("%T", event)))
		return nil
	}
}

func handleGitHubWebhook(uc interfaces.UseCase, queue *indexQueue, secret types.GitHubWebhookSecret) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		event, err := validateGitHubEvent(r, secret)
		if err != nil {
			errutil.HandleError(ctx, "fail to validate GitHub event", err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid webhook request"})
			return
		}

		repo := githubEventToRepository(event)
		if repo == nil || repo.Owner == "" || repo.Repo == "" {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "no indexing required"})
			return
		}

		projects := uc.ProjectsByRepository(repo.Owner, repo.Repo)
		logging.From(ctx).Info("Received GitHub event",
			slog.String("event_type", github.WebHookType(r)),
			slog.String("owner", repo.Owner),
			slog.String("repo", repo.Repo),
			slog.Any("projects", projects),
		)
		if len(projects) == 0 {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "no project for the repository"})
			return
		}

		// The request context is cancelled when the response is sent
		bgCtx := DetachContext(ctx)
		for _, project := range projects {
			queue.trigger(bgCtx, project)
		}

		writeJSON(w, http.StatusAccepted, map[string]any{"status": "accepted", "projects": projects})
	}
}
