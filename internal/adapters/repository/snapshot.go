package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/okian/pointsplus/internal/adapters/publish"
	"github.com/okian/pointsplus/pkg/metrics"
)

// defaultMaxLimit bounds TopN unless overridden.
const defaultMaxLimit = 500

// SnapshotStore serves reads from an atomically swapped snapshot. Readers
// never block writers and always see one complete run.
type SnapshotStore struct {
	maxLimit int
	now      func() time.Time

	snapshot atomic.Pointer[Snapshot]
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		maxLimit: defaultMaxLimit,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish replaces the current snapshot with b.
func (s *SnapshotStore) Publish(_ context.Context, b *publish.Bundle) error {
	if b == nil {
		return errors.New("publish: nil bundle")
	}
	snap := &Snapshot{Bundle: b, PublishedAt: s.now()}
	s.snapshot.Store(snap)
	metrics.MarkSnapshot(snap.PublishedAt.Unix())
	return nil
}

// Current returns the latest snapshot.
func (s *SnapshotStore) Current() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// TopN returns up to n rows, capped at the configured maximum.
func (s *SnapshotStore) TopN(_ context.Context, n int) ([]publish.Player, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	snap, err := s.Current()
	if err != nil {
		return nil, err
	}
	n = min(n, s.maxLimit, len(snap.Bundle.Leaderboard))

	out := make([]publish.Player, n)
	copy(out, snap.Bundle.Leaderboard[:n])
	return out, nil
}

// Player returns the detail record for id.
func (s *SnapshotStore) Player(_ context.Context, id int64) (publish.PlayerDetail, error) {
	snap, err := s.Current()
	if err != nil {
		return publish.PlayerDetail{}, err
	}
	d, ok := snap.Bundle.Players[id]
	if !ok {
		return publish.PlayerDetail{}, ErrPlayerNotFound
	}
	return d, nil
}

// Distribution returns the histogram buckets.
func (s *SnapshotStore) Distribution(_ context.Context) ([]publish.Bin, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, err
	}
	out := make([]publish.Bin, len(snap.Bundle.Distribution))
	copy(out, snap.Bundle.Distribution)
	return out, nil
}

// Metadata returns the run metadata.
func (s *SnapshotStore) Metadata(_ context.Context) (publish.Metadata, error) {
	snap, err := s.Current()
	if err != nil {
		return publish.Metadata{}, err
	}
	return snap.Bundle.Metadata, nil
}

// Count returns the number of ranked players.
func (s *SnapshotStore) Count(_ context.Context) int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return len(snap.Bundle.Leaderboard)
}
