package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
)

// Scheduler wraps gocron for periodic rebuilds (serve --rebuild-every).
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler running rebuild every interval.
func NewScheduler(interval time.Duration, rebuild func() error) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Info("Running scheduled rebuild", slog.Duration("interval", interval))
			if err := rebuild(); err != nil {
				slog.Error("Scheduled rebuild failed", logfields.Error(err))
			}
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}

	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler and shuts it down when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.scheduler.Start()
	go func() {
		<-ctx.Done()
		if err := s.scheduler.Shutdown(); err != nil {
			slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}()
}
