package balance

import "errors"

// Errors returned by the pipeline. Every error from this package wraps exactly
// one of these, so callers can classify failures with errors.Is.
var (
	// ErrEmptyInput means there were no pixels or regions to analyse.
	ErrEmptyInput = errors.New("empty input")

	// ErrClustering means no clusters could be produced.
	ErrClustering = errors.New("clustering failed")

	// ErrConfiguration means a parameter or input shape was invalid.
	ErrConfiguration = errors.New("invalid configuration")
)
