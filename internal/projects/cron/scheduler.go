package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/studioform/onboarding-backend/internal/platform/logger"
)

// Purger removes drafts untouched for longer than retention.
type Purger interface {
	PurgeStaleDrafts(ctx context.Context, retention time.Duration) (int64, error)
}

// Scheduler runs the draft reaper on a cron schedule (with seconds field).
type Scheduler struct {
	cron      *cron.Cron
	purger    Purger
	retention time.Duration
	log       *logger.Logger
}

func NewScheduler(purger Purger, retention time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		purger:    purger,
		retention: retention,
		log:       log,
	}
}

// Start registers the reaper and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return fmt.Errorf("schedule draft reaper %q: %w", schedule, err)
	}
	s.cron.Start()
	s.log.Info("draft reaper scheduled", "schedule", schedule, "retention", s.retention)
	return nil
}

// Stop waits for a running purge to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce purges stale drafts now.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := s.purger.PurgeStaleDrafts(ctx, s.retention)
	if err != nil {
		s.log.Error("draft reaper failed", "error", err)
		return
	}
	s.log.Info("draft reaper finished", "purged", n)
}
