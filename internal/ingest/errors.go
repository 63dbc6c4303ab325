package ingest

import "errors"

// Sentinel kinds for ingestion errors.
var (
	ErrMissingColumn  = errors.New("missing required column")
	ErrMalformedValue = errors.New("malformed value")
)
