package model

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/brix/pkg/domain/types"
)

// DiscoveryDecision is a remote ref chosen as a build target by a discovery trait
type DiscoveryDecision struct {
	Name     types.JobName          `json:"name"`
	Kind     types.DecisionKind     `json:"kind"`
	Ref      *RemoteRef             `json:"ref"`
	Strategy types.CheckoutStrategy `json:"strategy,omitempty"`
	Trusted  bool                   `json:"trusted"`
}

// PullRequestJobName returns "PR-<n>", or "PR-<n>-head" / "PR-<n>-merge" if the
// pull request is built with more than one checkout strategy.
func PullRequestJobName(number int, strategy types.CheckoutStrategy, multiple bool) types.JobName {
	if !multiple {
		return types.JobName(fmt.Sprintf("PR-%d", number))
	}
	return types.JobName(fmt.Sprintf("PR-%d-%s", number, strings.ToLower(string(strategy))))
}

// Candidate is a buildable decision with its resolved commit
type Candidate struct {
	Decision *DiscoveryDecision
	Commit   *CommitMeta
}

func (x *Candidate) Name() types.JobName {
	return x.Decision.Name
}

func (x *Candidate) HeadRevision() types.Revision {
	return x.Decision.Ref.HeadRevision
}
