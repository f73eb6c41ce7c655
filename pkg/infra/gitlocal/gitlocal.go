package gitlocal

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Source is a SCM source backed by a git repository on local disk. Branches and tags are enumerated; pull requests are not available.
type Source struct {
	path string
	repo *git.Repository
}

var _ interfaces.SCMSource = (*Source)(nil)

// Open opens the git repository at path
func Open(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get absolute path", goerr.V("path", path))
	}

	repo, err := git.PlainOpen(abs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository", goerr.V("path", abs))
	}

	return &Source{path: abs, repo: repo}, nil
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return goerr.Wrap(err, "interrupted", goerr.T(types.TagCancelled))
	}
	return nil
}

// ListBranches implements interfaces.SCMSource
func (x *Source) ListBranches(ctx context.Context) ([]*model.RemoteRef, error) {
	var refs []*model.RemoteRef

	branches, err := x.repo.Branches()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list branches", goerr.V("path", x.path), goerr.T(types.TagTransport))
	}
	if err := branches.ForEach(func(ref *plumbing.Reference) error {
		if err := cancelled(ctx); err != nil {
			return err
		}
		ts, err := x.commitTime(ref.Hash())
		if err != nil {
			return err
		}
		refs = append(refs, &model.RemoteRef{
			Name:         ref.Name().Short(),
			Kind:         types.RefKindBranch,
			HeadRevision: types.Revision(ref.Hash().String()),
			LastCommitAt: ts,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	tags, err := x.repo.Tags()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tags", goerr.V("path", x.path), goerr.T(types.TagTransport))
	}
	if err := tags.ForEach(func(ref *plumbing.Reference) error {
		if err := cancelled(ctx); err != nil {
			return err
		}

		hash := ref.Hash()
		// Annotated tags point to a tag object instead of a commit
		if tag, err := x.repo.TagObject(hash); err == nil {
			commit, err := tag.Commit()
			if err != nil {
				return goerr.Wrap(err, "failed to get tagged commit", goerr.V("tag", ref.Name().Short()), goerr.T(types.TagTransport))
			}
			hash = commit.Hash
		}

		ts, err := x.commitTime(hash)
		if err != nil {
			return err
		}
		refs = append(refs, &model.RemoteRef{
			Name:         ref.Name().Short(),
			Kind:         types.RefKindTag,
			HeadRevision: types.Revision(hash.String()),
			LastCommitAt: ts,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return refs, nil
}

func (x *Source) commitTime(hash plumbing.Hash) (time.Time, error) {
	commit, err := x.repo.CommitObject(hash)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "failed to get commit", goerr.V("hash", hash.String()), goerr.T(types.TagTransport))
	}
	return commit.Committer.When, nil
}

func (x *Source) commit(revision types.Revision) (*object.Commit, error) {
	commit, err := x.repo.CommitObject(plumbing.NewHash(revision.String()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get commit",
			goerr.V("path", x.path),
			goerr.V("revision", revision),
			goerr.T(types.TagTransport),
		)
	}
	return commit, nil
}

// ResolveCommit implements interfaces.SCMSource
func (x *Source) ResolveCommit(ctx context.Context, revision types.Revision) (*model.CommitMeta, error) {
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	commit, err := x.commit(revision)
	if err != nil {
		return nil, err
	}

	return &model.CommitMeta{
		Revision:  types.Revision(commit.Hash.String()),
		Author:    commit.Author.Name,
		Message:   commit.Message,
		Timestamp: commit.Committer.When,
	}, nil
}

// CheckPathExists implements interfaces.SCMSource
func (x *Source) CheckPathExists(ctx context.Context, revision types.Revision, path string) (bool, error) {
	if err := cancelled(ctx); err != nil {
		return false, err
	}

	commit, err := x.commit(revision)
	if err != nil {
		return false, err
	}

	if _, err := commit.File(path); err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to look up file",
			goerr.V("revision", revision),
			goerr.V("path", path),
			goerr.T(types.TagTransport),
		)
	}

	return true, nil
}

// ResolveCloneURI implements interfaces.SCMSource. It returns URL of remote "origin" if configured, or file URL of the repository.
func (x *Source) ResolveCloneURI(ctx context.Context, input *interfaces.CloneURIInput) (string, error) {
	if remote, err := x.repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		return remote.Config().URLs[0], nil
	}
	return "file://" + filepath.ToSlash(x.path), nil
}

// DetectGitHubRepository returns GitHub owner and repository name parsed from URL of remote "origin"
func (x *Source) DetectGitHubRepository() (string, string, error) {
	remote, err := x.repo.Remote("origin")
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to get remote origin")
	}
	if len(remote.Config().URLs) == 0 {
		return "", "", goerr.New("no remote URL found")
	}

	return ParseGitHubURL(remote.Config().URLs[0])
}

// ParseGitHubURL parses git remote URL (e.g., git@github.com:owner/repo.git or https://github.com/owner/repo.git)
func ParseGitHubURL(url string) (string, string, error) {
	var path string
	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		path = strings.TrimPrefix(url, "git@github.com:")
	case strings.Contains(url, "github.com/"):
		path = strings.SplitN(url, "github.com/", 2)[1]
	}

	ownerRepo := strings.Split(strings.TrimSuffix(path, ".git"), "/")
	if len(ownerRepo) != 2 || ownerRepo[0] == "" || ownerRepo[1] == "" {
		return "", "", goerr.New("failed to parse GitHub owner/repo from git remote URL", goerr.V("url", url))
	}

	return ownerRepo[0], ownerRepo[1], nil
}
