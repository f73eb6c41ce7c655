package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type (
	ProjectName   string
	JobName       string
	Revision      string
	CredentialsID string
)

func (x ProjectName) String() string { return string(x) }
func (x JobName) String() string     { return string(x) }
func (x Revision) String() string    { return string(x) }

type RunID string

func NewRunID() RunID {
	return RunID(uuid.NewString())
}

func (x RunID) String() string { return string(x) }

type RequestID string

func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

// RefKind is the kind of reference reported by a SCM
type RefKind string

const (
	RefKindBranch      RefKind = "branch"
	RefKindTag         RefKind = "tag"
	RefKindPullRequest RefKind = "pull_request"
)

// DecisionKind is the kind of build target chosen by discovery
type DecisionKind string

const (
	DecisionBranch   DecisionKind = "branch"
	DecisionOriginPR DecisionKind = "origin_pr"
	DecisionForkPR   DecisionKind = "fork_pr"
)

type CheckoutStrategy string

const (
	CheckoutHead  CheckoutStrategy = "HEAD"
	CheckoutMerge CheckoutStrategy = "MERGE"
)

func (x CheckoutStrategy) Validate() error {
	switch x {
	case CheckoutHead, CheckoutMerge:
		return nil
	}
	return goerr.Wrap(ErrInvalidOption, "invalid checkout strategy", goerr.V("strategy", x))
}

// RunState is a step of an indexing run
type RunState string

const (
	StateEnumerating   RunState = "enumerating"
	StateFiltering     RunState = "filtering"
	StateDiffing       RunState = "diffing"
	StateMaterializing RunState = "materializing"
	StateScheduling    RunState = "scheduling"
	StateTerminal      RunState = "terminal"
)

type (
	GoogleProjectID string
	BQDatasetID     string
	BQTableID       string
	GCSBucket       string
)

func (x GoogleProjectID) String() string { return string(x) }
func (x BQDatasetID) String() string     { return string(x) }
func (x BQTableID) String() string       { return string(x) }
func (x GCSBucket) String() string       { return string(x) }
