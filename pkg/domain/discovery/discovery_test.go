package discovery_test

import (
	"testing"

	"github.com/m-mizutani/brix/pkg/domain/discovery"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func branch(name, rev string) *model.RemoteRef {
	return &model.RemoteRef{Name: name, Kind: types.RefKindBranch, HeadRevision: types.Revision(rev)}
}

func pr(number int, owner, submitter string) *model.RemoteRef {
	return &model.RemoteRef{
		Name:         "pr",
		Kind:         types.RefKindPullRequest,
		HeadRevision: "beef",
		PullRequest: &model.PullRequest{
			Number:       number,
			SourceOwner:  owner,
			SourceRepo:   "foo",
			SourceBranch: "feature",
			TargetBranch: "main",
			Submitter:    submitter,
		},
	}
}

func names(decisions []*model.DiscoveryDecision) []types.JobName {
	var out []types.JobName
	for _, d := range decisions {
		out = append(out, d.Name)
	}
	return out
}

func TestChain(t *testing.T) {
	req := &discovery.Request{Owner: "bob", Repo: "foo"}

	t.Run("default traits pick branches, origin PRs and team fork PRs", func(t *testing.T) {
		cfg := model.DefaultTraitConfig()
		cfg.TrustedMembers = []string{"alice"}
		chain := discovery.New(cfg)

		refs := []*model.RemoteRef{
			branch("main", "aaa"),
			{Name: "v1.0", Kind: types.RefKindTag, HeadRevision: "bbb"},
			pr(1, "bob", "bob"),
			pr(2, "alice", "alice"),
			pr(3, "mallory", "mallory"),
		}

		decisions := chain.Apply(req, refs)
		gt.V(t, names(decisions)).Equal([]types.JobName{"main", "PR-1", "PR-2"})
		gt.V(t, decisions[1].Kind).Equal(types.DecisionOriginPR)
		gt.V(t, decisions[2].Kind).Equal(types.DecisionForkPR)
		gt.V(t, decisions[2].Strategy).Equal(types.CheckoutHead)
	})

	t.Run("tags are included when enabled", func(t *testing.T) {
		chain := discovery.New(model.TraitConfig{IncludeBranches: false, IncludeTags: true})
		refs := []*model.RemoteRef{
			branch("main", "aaa"),
			{Name: "v1.0", Kind: types.RefKindTag, HeadRevision: "bbb"},
		}
		gt.V(t, names(chain.Apply(req, refs))).Equal([]types.JobName{"v1.0"})
	})

	t.Run("multiple strategies produce suffixed names", func(t *testing.T) {
		chain := discovery.New(model.TraitConfig{
			OriginPRStrategies: []types.CheckoutStrategy{types.CheckoutHead, types.CheckoutMerge},
		})
		decisions := chain.Apply(req, []*model.RemoteRef{pr(7, "bob", "bob")})
		gt.V(t, names(decisions)).Equal([]types.JobName{"PR-7-head", "PR-7-merge"})
	})

	t.Run("duplicate names keep the first decision", func(t *testing.T) {
		chain := discovery.Chain{
			&discovery.BranchDiscovery{IncludeBranches: true},
			&discovery.BranchDiscovery{IncludeBranches: true},
		}
		decisions := chain.Apply(req, []*model.RemoteRef{branch("main", "aaa"), branch("main", "bbb")})
		gt.V(t, len(decisions)).Equal(1)
		gt.V(t, decisions[0].Ref.HeadRevision).Equal(types.Revision("aaa"))
	})

	t.Run("empty ref list yields no decision", func(t *testing.T) {
		chain := discovery.New(model.DefaultTraitConfig())
		gt.V(t, len(chain.Apply(req, nil))).Equal(0)
	})
}

func TestTrustPolicy(t *testing.T) {
	t.Run("team forks", func(t *testing.T) {
		policy := discovery.TrustTeamForks("alice")
		gt.True(t, policy.Trusted("bob", "foo", "bob"))
		gt.True(t, policy.Trusted("bob", "foo", "alice"))
		gt.False(t, policy.Trusted("bob", "foo", "mallory"))
		gt.False(t, policy.Trusted("bob", "foo", ""))
	})

	t.Run("named policies", func(t *testing.T) {
		gt.True(t, discovery.NewTrustPolicy(model.ForkTrustEveryone, nil).Trusted("bob", "foo", "mallory"))
		gt.False(t, discovery.NewTrustPolicy(model.ForkTrustNobody, nil).Trusted("bob", "foo", "bob"))
		gt.False(t, discovery.NewTrustPolicy("unknown", nil).Trusted("bob", "foo", "bob"))
	})

	t.Run("fork PR is dropped without policy", func(t *testing.T) {
		trait := &discovery.ForkPRDiscovery{Strategies: []types.CheckoutStrategy{types.CheckoutHead}}
		req := &discovery.Request{Owner: "bob", Repo: "foo"}
		gt.V(t, len(trait.Discover(req, pr(1, "alice", "alice")))).Equal(0)
	})
}
