package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNoSnapshot     = errors.New("no snapshot published yet")
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidLimit   = errors.New("invalid leaderboard limit")
)
