package config

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/ghapp"
	"github.com/m-mizutani/brix/pkg/infra/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// GitHub configures access to GitHub. A personal access token or a GitHub App can be used.
type GitHub struct {
	token         types.GitHubToken `masq:"secret"`
	appID         types.GitHubAppID
	privateKey    types.GitHubAppPrivateKey `masq:"secret"`
	installID     types.GitHubAppInstallID
	allRepos      bool
	webhookSecret types.GitHubWebhookSecret `masq:"secret"`
	baseURL       string
	rateLimit     float64
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Category:    "GitHub",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("BRIX_GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Category:    "GitHub",
			Destination: (*int64)(&x.appID),
			Sources:     cli.EnvVars("BRIX_GITHUB_APP_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App Private Key",
			Category:    "GitHub",
			Destination: (*string)(&x.privateKey),
			Sources:     cli.EnvVars("BRIX_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID. Looked up by repository owner if not set",
			Category:    "GitHub",
			Destination: (*int64)(&x.installID),
			Sources:     cli.EnvVars("BRIX_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.BoolFlag{
			Name:        "github-app-all-repos",
			Usage:       "Index every repository the installation can access",
			Category:    "GitHub",
			Destination: &x.allRepos,
			Sources:     cli.EnvVars("BRIX_GITHUB_APP_ALL_REPOS"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "Secret to verify GitHub webhook signatures",
			Category:    "GitHub",
			Destination: (*string)(&x.webhookSecret),
			Sources:     cli.EnvVars("BRIX_GITHUB_WEBHOOK_SECRET"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL for GitHub Enterprise Server",
			Category:    "GitHub",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("BRIX_GITHUB_BASE_URL"),
		},
		&cli.FloatFlag{
			Name:        "github-rate-limit",
			Usage:       "Maximum GitHub API requests per second",
			Category:    "GitHub",
			Destination: &x.rateLimit,
			Value:       10,
			Sources:     cli.EnvVars("BRIX_GITHUB_RATE_LIMIT"),
		},
	}
}

func (x *GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("Token.len", len(x.token)),
		slog.Int64("AppID", int64(x.appID)),
		slog.Int("PrivateKey.len", len(x.privateKey)),
		slog.Int64("InstallID", int64(x.installID)),
		slog.Bool("AllRepos", x.allRepos),
		slog.Int("WebhookSecret.len", len(x.webhookSecret)),
		slog.String("BaseURL", x.baseURL),
		slog.Float64("RateLimit", x.rateLimit),
	)
}

func (x *GitHub) WebhookSecret() types.GitHubWebhookSecret {
	return x.webhookSecret
}

func (x *GitHub) useApp() bool {
	return x.appID != 0
}

func (x *GitHub) newApp() (*ghapp.Client, error) {
	return ghapp.New(x.appID, x.privateKey)
}

// HTTPClient returns a HTTP client authenticated for the repository owner. It is unauthenticated if neither token nor App is configured.
func (x *GitHub) HTTPClient(ctx context.Context, owner string) (*http.Client, error) {
	if x.token != "" {
		return github.NewTokenHTTPClient(ctx, x.token), nil
	}

	if !x.useApp() {
		return http.DefaultClient, nil
	}

	app, err := x.newApp()
	if err != nil {
		return nil, err
	}

	installID := x.installID
	if installID == 0 {
		installID, err = app.GetInstallationIDForOwner(ctx, owner)
		if err != nil {
			return nil, err
		}
	}

	return app.HTTPClient(installID)
}

// NewSource returns a GitHub SCM source of the repository
func (x *GitHub) NewSource(ctx context.Context, owner, repo string) (*github.Source, error) {
	httpClient, err := x.HTTPClient(ctx, owner)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub HTTP client", goerr.V("owner", owner))
	}

	var options []github.Option
	if x.baseURL != "" {
		options = append(options, github.WithBaseURL(x.baseURL))
	}
	if x.rateLimit > 0 {
		options = append(options, github.WithRateLimit(rate.Limit(x.rateLimit), 1))
	}

	return github.New(owner, repo, httpClient, options...)
}

// InstallationProjects returns projects of all repositories of the installation. It returns nil if --github-app-all-repos is not set.
func (x *GitHub) InstallationProjects(ctx context.Context) ([]*model.Project, error) {
	if !x.allRepos {
		return nil, nil
	}
	if !x.useApp() || x.installID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "github-app-all-repos requires GitHub App ID and installation ID")
	}

	app, err := x.newApp()
	if err != nil {
		return nil, err
	}

	return app.ListInstallationProjects(ctx, x.installID)
}
