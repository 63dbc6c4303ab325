package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrTableNotFound = errors.New("table not found")
	ErrReadTable     = errors.New("read table failed")
	ErrWriteTable    = errors.New("write table failed")
)
