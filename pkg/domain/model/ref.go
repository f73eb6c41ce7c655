package model

import (
	"time"

	"github.com/m-mizutani/brix/pkg/domain/types"
)

// RemoteRef is a branch, tag or pull request reported by a SCM in one scan.
type RemoteRef struct {
	Name         string         `json:"name"`
	Kind         types.RefKind  `json:"kind"`
	HeadRevision types.Revision `json:"head_revision"`
	LastCommitAt time.Time      `json:"last_commit_at"`
	PullRequest  *PullRequest   `json:"pull_request,omitempty"`
}

// PullRequest carries the pull request part of a RemoteRef
type PullRequest struct {
	Number       int    `json:"number"`
	SourceOwner  string `json:"source_owner"`
	SourceRepo   string `json:"source_repo"`
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	Submitter    string `json:"submitter"`
}

// IsFork returns true if the pull request comes from a repository other than owner/repo
func (x *PullRequest) IsFork(owner, repo string) bool {
	return x.SourceOwner != owner || x.SourceRepo != repo
}

// CommitMeta is commit metadata resolved for a revision
type CommitMeta struct {
	Revision  types.Revision `json:"revision"`
	Author    string         `json:"author"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
}
