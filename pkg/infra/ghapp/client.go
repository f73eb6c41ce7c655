package ghapp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Client authenticates as a GitHub App
type Client struct {
	appID types.GitHubAppID
	pem   types.GitHubAppPrivateKey
}

func New(appID types.GitHubAppID, pem types.GitHubAppPrivateKey) (*Client, error) {
	if appID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "appID is empty")
	}
	if pem == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "pem is empty")
	}

	client := &Client{
		appID: appID,
		pem:   pem,
	}

	return client, nil
}

func (x *Client) buildGithubClient(installID types.GitHubAppInstallID) (*github.Client, error) {
	httpClient, err := x.HTTPClient(installID)
	if err != nil {
		return nil, err
	}
	return github.NewClient(httpClient), nil
}

// HTTPClient returns a HTTP client authenticated as the installation. It is passed to the GitHub SCM adapter.
func (x *Client) HTTPClient(installID types.GitHubAppInstallID) (*http.Client, error) {
	tr := http.DefaultTransport
	itr, err := ghinstallation.New(tr, int64(x.appID), int64(installID), []byte(x.pem))
	if err != nil {
		return nil, goerr.Wrap(err, "Failed to create github client",
			goerr.V("appID", x.appID),
			goerr.V("installID", installID),
		)
	}

	return &http.Client{Transport: itr}, nil
}

// ListInstallationProjects returns a project for each active repository the installation can access
func (x *Client) ListInstallationProjects(ctx context.Context, installID types.GitHubAppInstallID) ([]*model.Project, error) {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return nil, err
	}

	var projects []*model.Project
	opts := &github.ListOptions{PerPage: 100}

	for {
		result, resp, err := client.Apps.ListRepos(ctx, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list installation repos", goerr.V("installID", installID))
		}

		for _, repo := range result.Repositories {
			if repo.GetArchived() || repo.GetDisabled() {
				continue
			}

			p := &model.Project{
				Owner:  repo.GetOwner().GetLogin(),
				Repo:   repo.GetName(),
				Traits: model.DefaultTraitConfig(),
			}
			p.SetDefaults()
			projects = append(projects, p)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logging.From(ctx).Info("Listed installation repos",
		slog.Int("count", len(projects)),
		slog.Any("installID", installID),
	)

	return projects, nil
}

func (x *Client) buildAppClient() (*github.Client, error) {
	tr := http.DefaultTransport
	itr, err := ghinstallation.NewAppsTransport(tr, int64(x.appID), []byte(x.pem))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create app transport")
	}
	return github.NewClient(&http.Client{Transport: itr}), nil
}

// GetInstallationIDForOwner looks up installation of the App for an organization or a user
func (x *Client) GetInstallationIDForOwner(ctx context.Context, owner string) (types.GitHubAppInstallID, error) {
	client, err := x.buildAppClient()
	if err != nil {
		return 0, err
	}

	installation, resp, orgErr := client.Apps.FindOrganizationInstallation(ctx, owner)
	if orgErr == nil && installation != nil {
		logging.From(ctx).Info("Found organization installation",
			slog.String("owner", owner),
			slog.Int64("installID", installation.GetID()),
		)
		return types.GitHubAppInstallID(installation.GetID()), nil
	}

	// Not an organization, then try user installation
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		installation, _, userErr := client.Apps.FindUserInstallation(ctx, owner)
		if userErr != nil {
			return 0, goerr.Wrap(userErr, "failed to find user installation for owner",
				goerr.V("owner", owner),
			)
		}

		if installation != nil {
			logging.From(ctx).Info("Found user installation",
				slog.String("owner", owner),
				slog.Int64("installID", installation.GetID()),
			)
			return types.GitHubAppInstallID(installation.GetID()), nil
		}
	}

	if orgErr != nil {
		return 0, goerr.Wrap(orgErr, "failed to find organization installation for owner",
			goerr.V("owner", owner),
		)
	}

	return 0, goerr.Wrap(types.ErrInvalidOption, "installation not found for owner",
		goerr.V("owner", owner),
	)
}
