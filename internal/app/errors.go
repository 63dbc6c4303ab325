package service

import "errors"

// Sentinel kinds for run errors.
var (
	ErrNoSource = errors.New("no table source configured")
	ErrFetch    = errors.New("fetch stage failed")
	ErrIngest   = errors.New("ingest stage failed")
	ErrPublish  = errors.New("publish stage failed")
)
