package discovery

import (
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
)

// BranchDiscovery selects branches and tags
type BranchDiscovery struct {
	IncludeBranches bool
	IncludeTags     bool
}

func (x *BranchDiscovery) Discover(_ *Request, ref *model.RemoteRef) []*model.DiscoveryDecision {
	switch {
	case ref.Kind == types.RefKindBranch && x.IncludeBranches:
	case ref.Kind == types.RefKindTag && x.IncludeTags:
	default:
		return nil
	}

	return []*model.DiscoveryDecision{
		{
			Name:    types.JobName(ref.Name),
			Kind:    types.DecisionBranch,
			Ref:     ref,
			Trusted: true,
		},
	}
}
