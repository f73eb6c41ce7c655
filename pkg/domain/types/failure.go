package types

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Failure kind tags attached to errors returned by SCM adapters and executors.
var (
	TagTransport = goerr.NewTag("transport")
	TagCancelled = goerr.NewTag("cancelled")
	TagFatal     = goerr.NewTag("fatal")
)

// FailureKind is the closed set of failure categories an indexing run distinguishes.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTransport
	FailureUnexpected
	FailureCancelled
	FailureFatal
)

func (x FailureKind) String() string {
	switch x {
	case FailureNone:
		return "none"
	case FailureTransport:
		return "transport"
	case FailureUnexpected:
		return "unexpected"
	case FailureCancelled:
		return "cancelled"
	case FailureFatal:
		return "fatal"
	}
	return "unknown"
}

// Result maps the failure kind to the result of an indexing run.
func (x FailureKind) Result() Result {
	switch x {
	case FailureNone:
		return ResultSuccess
	case FailureTransport, FailureUnexpected:
		return ResultFailure
	case FailureCancelled:
		return ResultAborted
	case FailureFatal:
		return ResultNotBuilt
	}
	return ResultNotBuilt
}

// ClassifyFailure returns the failure kind of err. Fatal wins over Cancelled,
// and Cancelled wins over Transport, if several tags are found in the chain.
// An error without any tag is Unexpected.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureNone
	}

	var transport, cancelled, fatal bool
	for e := err; e != nil; e = errors.Unwrap(e) {
		if ge, ok := e.(*goerr.Error); ok {
			transport = transport || ge.HasTag(TagTransport)
			cancelled = cancelled || ge.HasTag(TagCancelled)
			fatal = fatal || ge.HasTag(TagFatal)
		}
	}

	switch {
	case fatal:
		return FailureFatal
	case cancelled, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return FailureCancelled
	case transport:
		return FailureTransport
	default:
		return FailureUnexpected
	}
}
