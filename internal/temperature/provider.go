package temperature

import (
	"context"
	"time"
)

// Source abstracts where the dataset comes from (remote URL, local file).
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Dataset, error)
}

// Store is the contract the in-memory store and the SQLite store must satisfy.
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	GetLatest(ctx context.Context) (Snapshot, error)
	GetRange(ctx context.Context, from, to time.Time) ([]Snapshot, error)
}
