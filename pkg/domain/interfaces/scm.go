package interfaces

//go:generate moq -out ../mock/scm.go -pkg mock . SCMSource

import (
	"context"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
)

// SCMSource is the adapter to a remote repository. Implementations tag errors
// with types.TagTransport, types.TagCancelled or types.TagFatal where the kind
// of failure is known, and never retry.
type SCMSource interface {
	ListBranches(ctx context.Context) ([]*model.RemoteRef, error)
	ResolveCommit(ctx context.Context, revision types.Revision) (*model.CommitMeta, error)
	CheckPathExists(ctx context.Context, revision types.Revision, path string) (bool, error)
	ResolveCloneURI(ctx context.Context, input *CloneURIInput) (string, error)
}

type CloneURIInput struct {
	Protocol      string
	CredentialsID types.CredentialsID
	Owner         string
	Repo          string
}
