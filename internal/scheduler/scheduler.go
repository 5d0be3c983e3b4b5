package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

// refreshTimeout bounds a single scheduled refresh.
const refreshTimeout = 30 * time.Second

// Refresher is the part of temperature.Service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) (temperature.Snapshot, error)
}

// Scheduler periodically reloads the temperature dataset.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, service Refresher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
// The first run happens one interval from now.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	_, err := s.scheduler.Every(interval).WaitForSchedule().SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.logger.Info("scheduler started", "interval", interval)
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	s.logger.Info("scheduler: running dataset refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	snap, err := s.service.Refresh(ctx)
	if err != nil {
		s.logger.Error("scheduler: dataset refresh failed", "error", err)
		return
	}
	s.logger.Info("scheduler: completed dataset refresh job", "snapshot", snap.ID, "source", snap.Source)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
