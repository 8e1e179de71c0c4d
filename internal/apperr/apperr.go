// Package apperr defines the typed failures the stat engine reports to callers.
// Validation errors are detected before any aggregation work begins; storage
// failures abort the whole request.
package apperr

import "fmt"

// UnknownReference reports a caller-supplied name or id that does not exist.
// The offending value is always included so the caller can tell which one failed.
type UnknownReference struct {
	Kind  string // "tag", "username", "game", "character"
	Value string
}

func (e *UnknownReference) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Value)
}

// InvalidDate reports a date string that does not parse as YYYY-MM-DD.
type InvalidDate struct {
	Value string
}

func (e *InvalidDate) Error() string {
	return fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", e.Value)
}

// RangeError reports a value outside its allowed range, e.g. a character id
// outside 0..54 or a date window whose lower bound is above its upper bound.
type RangeError struct {
	Field  string
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s out of range: %s", e.Field, e.Reason)
}

// UpstreamFailure wraps a storage error. Fetch failures are surfaced, not
// retried, and never produce a partial result.
type UpstreamFailure struct {
	Op  string
	Err error
}

func (e *UpstreamFailure) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamFailure) Unwrap() error { return e.Err }
