package types

import "errors"

var (
	// ErrNotFound marks lookups that yielded nothing: an unknown trip ID or a
	// destination the geocoder could not resolve. Handlers translate it to a
	// plain "no results" message, never a 5xx.
	ErrNotFound = errors.New("not found")

	// ErrProviderUnavailable marks a failed or timed-out provider call. Always
	// non-fatal inside the pipeline: the call's contribution degrades to empty.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrParseFailed marks model output that survived neither the strict JSON
	// parse nor the brace-scan recovery pass.
	ErrParseFailed = errors.New("failed to parse model response")
)
