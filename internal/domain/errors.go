package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies run failures so the orchestrator can tell "abort run"
// from "abort process" and pick the right operator message.
type ErrorKind int

const (
	// KindConfig means required credentials or channel identifiers are
	// missing. Aborts the run immediately.
	KindConfig ErrorKind = iota + 1
	// KindAuth means the upstream rejected our credentials; the operator
	// must redo the authorization flow.
	KindAuth
	// KindUpstreamAPI covers non-success envelopes, malformed responses and
	// transport errors from the upstream API.
	KindUpstreamAPI
	// KindPublishAPI means the messaging API returned a non-ok response.
	KindPublishAPI
	// KindLeaseRelease means lease release retries were exhausted. A stuck
	// lease wedges all future runs, so this escalates to process level.
	KindLeaseRelease
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindUpstreamAPI:
		return "upstream_api"
	case KindPublishAPI:
		return "publish_api"
	case KindLeaseRelease:
		return "lease_release"
	default:
		return "unknown"
	}
}

// Error is a classified error. Wrapping with fmt.Errorf("%w") preserves the
// kind through the call stack.
type Error struct {
	Kind ErrorKind
	err  error
}

func E(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// KindOf returns the classification of err, or 0 if it carries none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
