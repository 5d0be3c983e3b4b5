package temperature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrNoSources is returned by Refresh when the service has nothing to load from.
var ErrNoSources = errors.New("no dataset sources configured")

// Service loads the dataset from its sources and keeps snapshots in the store.
type Service struct {
	store   Store
	sources []Source
	logger  *slog.Logger

	now func() time.Time
}

// NewService creates a new Service. Sources are tried in the given order.
func NewService(store Store, sources []Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		sources: sources,
		logger:  logger,
		now:     time.Now,
	}
}

// Refresh fetches the dataset from the first source that succeeds and stores
// it as a new snapshot. When every source fails the last good snapshot is left
// untouched and the combined error is returned.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	if len(s.sources) == 0 {
		s.logger.Error("no sources available to load the temperature dataset")
		return Snapshot{}, ErrNoSources
	}

	var errs []error
	for _, src := range s.sources {
		start := s.now()
		ds, err := src.Fetch(ctx)
		if err != nil {
			s.logger.Warn("source fetch failed", "source", src.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		snapshot := Snapshot{
			ID:        uuid.NewString(),
			Source:    src.Name(),
			FetchedAt: s.now().UTC(),
			Dataset:   ds,
		}
		if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
			return Snapshot{}, fmt.Errorf("save snapshot: %w", err)
		}

		s.logger.Info("temperature dataset loaded",
			"source", src.Name(),
			"snapshot", snapshot.ID,
			"records", len(ds.Records),
			"duration", s.now().Sub(start),
		)
		return snapshot, nil
	}

	s.logger.Error("no source produced a dataset; keeping last good snapshot if any")
	return Snapshot{}, errors.Join(errs...)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(ctx context.Context) (Snapshot, error) {
	return s.store.GetLatest(ctx)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(ctx context.Context, from, to time.Time) ([]Snapshot, error) {
	return s.store.GetRange(ctx, from, to)
}
