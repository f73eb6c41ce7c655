package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Source is a SCM source of one GitHub repository
type Source struct {
	owner   string
	repo    string
	client  *github.Client
	limiter *rate.Limiter

	repoGroup singleflight.Group
	repoCache sync.Map
}

var _ interfaces.SCMSource = (*Source)(nil)

type Option func(*Source)

// WithRateLimit limits requests to the GitHub API
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(x *Source) {
		x.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithBaseURL replaces the API endpoint. It is used for GitHub Enterprise and testing.
func WithBaseURL(baseURL string) Option {
	return func(x *Source) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		if u, err := url.Parse(baseURL); err == nil {
			x.client.BaseURL = u
		}
	}
}

// New creates a source with the given HTTP client, which is expected to authenticate requests
func New(owner, repo string, httpClient *http.Client, options ...Option) (*Source, error) {
	if owner == "" || repo == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "owner and repo are required",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
		)
	}

	x := &Source{
		owner:   owner,
		repo:    repo,
		client:  github.NewClient(httpClient),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range options {
		opt(x)
	}

	return x, nil
}

// NewTokenHTTPClient returns a HTTP client authenticated by a personal access token
func NewTokenHTTPClient(ctx context.Context, token types.GitHubToken) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: string(token)})
	return oauth2.NewClient(ctx, ts)
}

// wrapError tags err as cancelled if the context is done, and as transport failure otherwise
func wrapError(ctx context.Context, err error, msg string, values ...goerr.Option) error {
	tag := types.TagTransport
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		tag = types.TagCancelled
	}
	return goerr.Wrap(err, msg, append(values, goerr.T(tag))...)
}

func (x *Source) wait(ctx context.Context) error {
	if err := x.limiter.Wait(ctx); err != nil {
		return goerr.Wrap(err, "interrupted while waiting for rate limit", goerr.T(types.TagCancelled))
	}
	return nil
}

// ListBranches implements interfaces.SCMSource. It returns branches, tags and open pull requests.
func (x *Source) ListBranches(ctx context.Context) ([]*model.RemoteRef, error) {
	branches, err := x.listBranches(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := x.listTags(ctx)
	if err != nil {
		return nil, err
	}
	pulls, err := x.listPullRequests(ctx)
	if err != nil {
		return nil, err
	}

	refs := append(append(branches, tags...), pulls...)
	logging.From(ctx).Debug("listed GitHub refs",
		slog.String("owner", x.owner),
		slog.String("repo", x.repo),
		slog.Int("branches", len(branches)),
		slog.Int("tags", len(tags)),
		slog.Int("pull_requests", len(pulls)),
	)

	return refs, nil
}

func (x *Source) listBranches(ctx context.Context) ([]*model.RemoteRef, error) {
	var refs []*model.RemoteRef
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: 100}}

	for {
		if err := x.wait(ctx); err != nil {
			return nil, err
		}
		branches, resp, err := x.client.Repositories.ListBranches(ctx, x.owner, x.repo, opts)
		if err != nil {
			return nil, wrapError(ctx, err, "failed to list branches",
				goerr.V("owner", x.owner),
				goerr.V("repo", x.repo),
			)
		}

		for _, b := range branches {
			refs = append(refs, &model.RemoteRef{
				Name:         b.GetName(),
				Kind:         types.RefKindBranch,
				HeadRevision: types.Revision(b.GetCommit().GetSHA()),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return refs, nil
}

func (x *Source) listTags(ctx context.Context) ([]*model.RemoteRef, error) {
	var refs []*model.RemoteRef
	opts := &github.ListOptions{PerPage: 100}

	for {
		if err := x.wait(ctx); err != nil {
			return nil, err
		}
		tags, resp, err := x.client.Repositories.ListTags(ctx, x.owner, x.repo, opts)
		if err != nil {
			return nil, wrapError(ctx, err, "failed to list tags",
				goerr.V("owner", x.owner),
				goerr.V("repo", x.repo),
			)
		}

		for _, tag := range tags {
			refs = append(refs, &model.RemoteRef{
				Name:         tag.GetName(),
				Kind:         types.RefKindTag,
				HeadRevision: types.Revision(tag.GetCommit().GetSHA()),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return refs, nil
}

func (x *Source) listPullRequests(ctx context.Context) ([]*model.RemoteRef, error) {
	var refs []*model.RemoteRef
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		if err := x.wait(ctx); err != nil {
			return nil, err
		}
		pulls, resp, err := x.client.PullRequests.List(ctx, x.owner, x.repo, opts)
		if err != nil {
			return nil, wrapError(ctx, err, "failed to list pull requests",
				goerr.V("owner", x.owner),
				goerr.V("repo", x.repo),
			)
		}

		for _, pr := range pulls {
			refs = append(refs, &model.RemoteRef{
				Name:         pr.GetHead().GetRef(),
				Kind:         types.RefKindPullRequest,
				HeadRevision: types.Revision(pr.GetHead().GetSHA()),
				LastCommitAt: pr.GetUpdatedAt().Time,
				PullRequest: &model.PullRequest{
					Number:       pr.GetNumber(),
					SourceOwner:  pr.GetHead().GetRepo().GetOwner().GetLogin(),
					SourceRepo:   pr.GetHead().GetRepo().GetName(),
					SourceBranch: pr.GetHead().GetRef(),
					TargetBranch: pr.GetBase().GetRef(),
					Submitter:    pr.GetUser().GetLogin(),
				},
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return refs, nil
}

// ResolveCommit implements interfaces.SCMSource
func (x *Source) ResolveCommit(ctx context.Context, revision types.Revision) (*model.CommitMeta, error) {
	if err := x.wait(ctx); err != nil {
		return nil, err
	}

	commit, _, err := x.client.Repositories.GetCommit(ctx, x.owner, x.repo, revision.String(), nil)
	if err != nil {
		return nil, wrapError(ctx, err, "failed to get commit",
			goerr.V("owner", x.owner),
			goerr.V("repo", x.repo),
			goerr.V("revision", revision),
		)
	}

	return &model.CommitMeta{
		Revision:  types.Revision(commit.GetSHA()),
		Author:    commit.GetCommit().GetAuthor().GetName(),
		Message:   commit.GetCommit().GetMessage(),
		Timestamp: commit.GetCommit().GetCommitter().GetDate().Time,
	}, nil
}

// CheckPathExists implements interfaces.SCMSource. A directory at path is not taken as existing.
func (x *Source) CheckPathExists(ctx context.Context, revision types.Revision, path string) (bool, error) {
	if err := x.wait(ctx); err != nil {
		return false, err
	}

	file, _, resp, err := x.client.Repositories.GetContents(ctx, x.owner, x.repo, path,
		&github.RepositoryContentGetOptions{Ref: revision.String()})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, wrapError(ctx, err, "failed to get contents",
			goerr.V("owner", x.owner),
			goerr.V("repo", x.repo),
			goerr.V("revision", revision),
			goerr.V("path", path),
		)
	}

	return file != nil, nil
}

// ResolveCloneURI implements interfaces.SCMSource. Protocol is "https" (default) or "ssh".
func (x *Source) ResolveCloneURI(ctx context.Context, input *interfaces.CloneURIInput) (string, error) {
	owner, repo := input.Owner, input.Repo
	if owner == "" {
		owner = x.owner
	}
	if repo == "" {
		repo = x.repo
	}

	ghRepo, err := x.getRepository(ctx, owner, repo)
	if err != nil {
		return "", err
	}

	switch input.Protocol {
	case "", "https":
		return ghRepo.GetCloneURL(), nil
	case "ssh":
		return ghRepo.GetSSHURL(), nil
	default:
		return "", goerr.Wrap(types.ErrInvalidOption, "unsupported clone protocol",
			goerr.V("protocol", input.Protocol),
		)
	}
}

func (x *Source) getRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	key := owner + "/" + repo
	if v, ok := x.repoCache.Load(key); ok {
		return v.(*github.Repository), nil
	}

	v, err, _ := x.repoGroup.Do(key, func() (any, error) {
		if err := x.wait(ctx); err != nil {
			return nil, err
		}
		ghRepo, _, err := x.client.Repositories.Get(ctx, owner, repo)
		if err != nil {
			return nil, wrapError(ctx, err, "failed to get repository",
				goerr.V("owner", owner),
				goerr.V("repo", repo),
			)
		}
		x.repoCache.Store(key, ghRepo)
		return ghRepo, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*github.Repository), nil
}
