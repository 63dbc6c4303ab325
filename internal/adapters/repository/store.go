// Package repository holds the latest published Points+ artifacts for
// concurrent readers.
package repository

import (
	"context"
	"time"

	"github.com/okian/pointsplus/internal/adapters/publish"
)

// Store provides read access to the latest run and a way to replace it.
type Store interface {
	// Publish atomically replaces the current snapshot.
	Publish(ctx context.Context, b *publish.Bundle) error

	// TopN returns the first n leaderboard rows in rank order.
	// n larger than the leaderboard returns every row.
	TopN(ctx context.Context, n int) ([]publish.Player, error)

	// Player returns one qualifier with its game log.
	// Returns ErrPlayerNotFound if the id did not qualify.
	Player(ctx context.Context, id int64) (publish.PlayerDetail, error)

	// Distribution returns the Points+ histogram.
	Distribution(ctx context.Context) ([]publish.Bin, error)

	// Metadata returns the run description.
	Metadata(ctx context.Context) (publish.Metadata, error)

	// Count returns the number of ranked players, 0 before the first publish.
	Count(ctx context.Context) int
}

// Snapshot is one immutable published run.
type Snapshot struct {
	Bundle      *publish.Bundle
	PublishedAt time.Time
}
