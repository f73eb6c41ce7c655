package discovery

import (
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
)

// Request is the context given to each trait
type Request struct {
	Owner string
	Repo  string
}

// Trait decides which build targets a remote ref becomes. It returns nil if
// the ref is not its concern.
type Trait interface {
	Discover(req *Request, ref *model.RemoteRef) []*model.DiscoveryDecision
}

// Chain is an ordered list of traits
type Chain []Trait

// Apply runs all traits over all refs. If two decisions have the same name,
// the first one is kept.
func (x Chain) Apply(req *Request, refs []*model.RemoteRef) []*model.DiscoveryDecision {
	var decisions []*model.DiscoveryDecision
	seen := make(map[types.JobName]struct{})

	for _, ref := range refs {
		for _, trait := range x {
			for _, d := range trait.Discover(req, ref) {
				if _, ok := seen[d.Name]; ok {
					continue
				}
				seen[d.Name] = struct{}{}
				decisions = append(decisions, d)
			}
		}
	}

	return decisions
}

// New builds the chain for the trait config: branch, origin pull request and fork pull request discovery.
func New(cfg model.TraitConfig) Chain {
	chain := Chain{
		&BranchDiscovery{
			IncludeBranches: cfg.IncludeBranches,
			IncludeTags:     cfg.IncludeTags,
		},
	}

	if len(cfg.OriginPRStrategies) > 0 {
		chain = append(chain, &OriginPRDiscovery{Strategies: cfg.OriginPRStrategies})
	}

	if len(cfg.ForkPRStrategies) > 0 {
		chain = append(chain, &ForkPRDiscovery{
			Strategies: cfg.ForkPRStrategies,
			Trust:      NewTrustPolicy(cfg.ForkTrust, cfg.TrustedMembers),
		})
	}

	return chain
}
