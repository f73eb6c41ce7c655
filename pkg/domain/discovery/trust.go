package discovery

import "github.com/m-mizutani/brix/pkg/domain/model"

// TrustPolicy decides whether a fork pull request may be built
type TrustPolicy interface {
	Trusted(owner, repo, submitter string) bool
}

type TrustFunc func(owner, repo, submitter string) bool

func (f TrustFunc) Trusted(owner, repo, submitter string) bool {
	return f(owner, repo, submitter)
}

var (
	TrustEveryone TrustPolicy = TrustFunc(func(string, string, string) bool { return true })
	TrustNobody   TrustPolicy = TrustFunc(func(string, string, string) bool { return false })
)

// TrustTeamForks trusts pull requests submitted by the repository owner or a team member
func TrustTeamForks(members ...string) TrustPolicy {
	team := make(map[string]struct{}, len(members))
	for _, m := range members {
		team[m] = struct{}{}
	}

	return TrustFunc(func(owner, _, submitter string) bool {
		if submitter == "" {
			return false
		}
		if submitter == owner {
			return true
		}
		_, ok := team[submitter]
		return ok
	})
}

// NewTrustPolicy returns the policy for a model.ForkTrust* name. Unknown names trust nobody.
func NewTrustPolicy(name string, members []string) TrustPolicy {
	switch name {
	case model.ForkTrustEveryone:
		return TrustEveryone
	case model.ForkTrustTeam:
		return TrustTeamForks(members...)
	default:
		return TrustNobody
	}
}
