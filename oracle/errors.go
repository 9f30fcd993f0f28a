package oracle

import "errors"

var (
	// ErrUnavailable means no oracle is configured for this process
	ErrUnavailable = errors.New("oracle: unavailable")

	// ErrFailure means a request was attempted and did not produce an answer
	// (network error, timeout, non-2xx status, malformed body, no candidates,
	// exhausted quota)
	ErrFailure = errors.New("oracle: request failed")
)
