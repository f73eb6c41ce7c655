package model

import (
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultMarkerFile    = "Jenkinsfile"
	DefaultSCM           = "git"
	DefaultCloneProtocol = "https"
)

// Fork trust policies
const (
	ForkTrustTeam     = "team"
	ForkTrustEveryone = "everyone"
	ForkTrustNobody   = "nobody"
)

// Project is a multibranch project indexed against one remote repository
type Project struct {
	Name          types.ProjectName   `json:"name"`
	Owner         string              `json:"owner"`
	Repo          string              `json:"repo"`
	SCM           string              `json:"scm"`
	MarkerFile    string              `json:"marker_file"`
	CredentialsID types.CredentialsID `json:"credentials_id,omitempty"`
	CloneProtocol string              `json:"clone_protocol"`
	Traits        TraitConfig         `json:"traits"`
}

// TraitConfig configures the discovery trait chain of a project
type TraitConfig struct {
	IncludeBranches    bool                     `json:"include_branches"`
	IncludeTags        bool                     `json:"include_tags"`
	OriginPRStrategies []types.CheckoutStrategy `json:"origin_pr_strategies"`
	ForkPRStrategies   []types.CheckoutStrategy `json:"fork_pr_strategies"`
	ForkTrust          string                   `json:"fork_trust"`
	TrustedMembers     []string                 `json:"trusted_members,omitempty"`
}

// DefaultTraitConfig builds branches, and origin and trusted fork pull requests with HEAD checkout
func DefaultTraitConfig() TraitConfig {
	return TraitConfig{
		IncludeBranches:    true,
		OriginPRStrategies: []types.CheckoutStrategy{types.CheckoutHead},
		ForkPRStrategies:   []types.CheckoutStrategy{types.CheckoutHead},
		ForkTrust:          ForkTrustTeam,
	}
}

// SetDefaults fills empty fields with default values
func (x *Project) SetDefaults() {
	if x.Name == "" && x.Owner != "" && x.Repo != "" {
		x.Name = types.ProjectName(x.Owner + "/" + x.Repo)
	}
	if x.SCM == "" {
		x.SCM = DefaultSCM
	}
	if x.MarkerFile == "" {
		x.MarkerFile = DefaultMarkerFile
	}
	if x.CloneProtocol == "" {
		x.CloneProtocol = DefaultCloneProtocol
	}
	if x.Traits.ForkTrust == "" {
		x.Traits.ForkTrust = ForkTrustTeam
	}
}

func (x *Project) Validate() error {
	if x.Name == "" {
		return goerr.Wrap(types.ErrValidationFailed, "project name is empty")
	}
	if x.Owner == "" || x.Repo == "" {
		return goerr.Wrap(types.ErrValidationFailed, "owner and repo are required",
			goerr.V("project", x.Name),
			goerr.V("owner", x.Owner),
			goerr.V("repo", x.Repo),
		)
	}
	if x.MarkerFile == "" {
		return goerr.Wrap(types.ErrValidationFailed, "marker file is empty", goerr.V("project", x.Name))
	}

	switch x.Traits.ForkTrust {
	case ForkTrustTeam, ForkTrustEveryone, ForkTrustNobody:
	default:
		return goerr.Wrap(types.ErrValidationFailed, "invalid fork trust policy",
			goerr.V("project", x.Name),
			goerr.V("fork_trust", x.Traits.ForkTrust),
		)
	}

	for _, s := range append(append([]types.CheckoutStrategy{}, x.Traits.OriginPRStrategies...), x.Traits.ForkPRStrategies...) {
		if err := s.Validate(); err != nil {
			return goerr.Wrap(err, "invalid pull request strategy", goerr.V("project", x.Name))
		}
	}

	return nil
}
