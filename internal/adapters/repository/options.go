package repository

import "time"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithMaxLimit caps the number of rows TopN returns.
func WithMaxLimit(n int) Option {
	return func(s *SnapshotStore) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithClock sets the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *SnapshotStore) {
		if now != nil {
			s.now = now
		}
	}
}
