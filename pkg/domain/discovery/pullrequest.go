package discovery

import (
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
)

// OriginPRDiscovery selects pull requests whose head is in the same repository
type OriginPRDiscovery struct {
	Strategies []types.CheckoutStrategy
}

func (x *OriginPRDiscovery) Discover(req *Request, ref *model.RemoteRef) []*model.DiscoveryDecision {
	if ref.Kind != types.RefKindPullRequest || ref.PullRequest == nil {
		return nil
	}
	if ref.PullRequest.IsFork(req.Owner, req.Repo) {
		return nil
	}

	return pullRequestDecisions(ref, types.DecisionOriginPR, x.Strategies)
}

// ForkPRDiscovery selects pull requests from forks submitted by trusted users
type ForkPRDiscovery struct {
	Strategies []types.CheckoutStrategy
	Trust      TrustPolicy
}

func (x *ForkPRDiscovery) Discover(req *Request, ref *model.RemoteRef) []*model.DiscoveryDecision {
	if ref.Kind != types.RefKindPullRequest || ref.PullRequest == nil {
		return nil
	}
	if !ref.PullRequest.IsFork(req.Owner, req.Repo) {
		return nil
	}
	if x.Trust == nil || !x.Trust.Trusted(req.Owner, req.Repo, ref.PullRequest.Submitter) {
		return nil
	}

	return pullRequestDecisions(ref, types.DecisionForkPR, x.Strategies)
}

func pullRequestDecisions(ref *model.RemoteRef, kind types.DecisionKind, strategies []types.CheckoutStrategy) []*model.DiscoveryDecision {
	multiple := len(strategies) > 1

	decisions := make([]*model.DiscoveryDecision, 0, len(strategies))
	for _, s := range strategies {
		decisions = append(decisions, &model.DiscoveryDecision{
			Name:     model.PullRequestJobName(ref.PullRequest.Number, s, multiple),
			Kind:     kind,
			Ref:      ref,
			Strategy: s,
			Trusted:  true,
		})
	}
	return decisions
}
