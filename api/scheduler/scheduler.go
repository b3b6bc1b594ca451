package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/categories"
)

// DefaultJobTimeout bounds one run of a job
const DefaultJobTimeout = 5 * time.Minute

// CategorySyncer adds missing built-in categories to the store
type CategorySyncer interface {
	Sync(ctx context.Context, force bool) (categories.SyncResult, error)
}

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron       *cron.Cron
	Categories CategorySyncer
	Schedule   string
	Timeout    time.Duration
}

// NewScheduler creates a scheduler that runs the category sync on schedule,
// a standard five field cron expression evaluated in loc.
func NewScheduler(c CategorySyncer, schedule string, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		Categories: c,
		Schedule:   schedule,
		Timeout:    DefaultJobTimeout,
	}
}

// Start registers the jobs and starts the cron loop. An empty schedule
// disables the category sync.
func (s *Scheduler) Start() error {
	if s.Schedule != "" {
		if _, err := s.cron.AddFunc(s.Schedule, s.syncCategories); err != nil {
			return fmt.Errorf("failed to register category sync job: %w", err)
		}
	}
	s.cron.Start()
	zap.S().Infow("scheduler started", "categorySync", s.Schedule)
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) syncCategories() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	res, err := s.Categories.Sync(ctx, false)
	if err != nil {
		zap.S().Errorw("scheduled category sync failed", "error", err)
		return
	}
	zap.S().Infow("scheduled category sync finished", "added", res.Added, "updated", res.Updated)
}
