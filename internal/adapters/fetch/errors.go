package fetch

import "errors"

// Sentinel kinds for fetch errors.
var (
	ErrUpstream    = errors.New("upstream request failed")
	ErrDecode      = errors.New("decode response failed")
	ErrNoResultSet = errors.New("response has no result set")
)
