package publish

import "errors"

// ErrWrite is returned when an artifact cannot be written.
var ErrWrite = errors.New("write artifact failed")
