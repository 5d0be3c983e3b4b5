package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

var (
	// ErrNotFound is returned when no snapshot matches the request.
	ErrNotFound = errors.New("no temperature snapshot available")
)

// Retention bounds how many snapshots a store keeps.
type Retention struct {
	MaxHistory int           // max number of snapshots (0 = unlimited)
	MaxAge     time.Duration // max age of snapshots (0 = unlimited)
}

// MemoryStore is a concurrency-safe in-memory snapshot store.
type MemoryStore struct {
	mu sync.RWMutex

	// ordered by FetchedAt ascending
	snapshots []temperature.Snapshot

	retention Retention
	now       func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
func NewMemoryStore(retention Retention) *MemoryStore {
	return &MemoryStore{
		retention: retention,
		now:       time.Now,
	}
}

// SaveSnapshot appends a new snapshot and enforces retention.
func (s *MemoryStore) SaveSnapshot(_ context.Context, snapshot temperature.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, snapshot)

	// Enforce retention by count.
	if s.retention.MaxHistory > 0 && len(s.snapshots) > s.retention.MaxHistory {
		over := len(s.snapshots) - s.retention.MaxHistory
		s.snapshots = s.snapshots[over:]
	}

	// Enforce retention by age; the newest snapshot always survives.
	if s.retention.MaxAge > 0 {
		cutoff := s.now().Add(-s.retention.MaxAge)
		i := 0
		for ; i < len(s.snapshots)-1; i++ {
			if !s.snapshots[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		s.snapshots = s.snapshots[i:]
	}
	return nil
}

// GetLatest returns the most recent snapshot.
func (s *MemoryStore) GetLatest(_ context.Context) (temperature.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return temperature.Snapshot{}, ErrNotFound
	}
	return s.snapshots[len(s.snapshots)-1], nil
}

// GetRange returns all snapshots fetched between from and to (inclusive).
func (s *MemoryStore) GetRange(_ context.Context, from, to time.Time) ([]temperature.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []temperature.Snapshot
	for _, snap := range s.snapshots {
		if !snap.FetchedAt.Before(from) && !snap.FetchedAt.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
