package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/event-tracker-api/pkg/jobs"
)

// JobPurgeSessions removes expired login sessions.
const JobPurgeSessions = "purge_expired_sessions"

type enqueuer interface {
	Enqueue(job jobs.Job) error
}

type sessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Scheduler turns cron ticks into queued maintenance jobs.
type Scheduler struct {
	cron   *cron.Cron
	queue  enqueuer
	logger *zap.Logger
}

// New creates a scheduler that enqueues onto queue.
func New(queue enqueuer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cron: cron.New(), queue: queue, logger: logger}
}

// PurgeSessionsHandler adapts a session purger to a queue handler.
func PurgeSessionsHandler(purger sessionPurger) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		if _, err := purger.PurgeExpiredSessions(ctx); err != nil {
			return fmt.Errorf("purge sessions: %w", err)
		}
		return nil
	}
}

// Schedule enqueues a job of jobType on every tick of spec.
func (s *Scheduler) Schedule(spec, jobType string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.enqueue(jobType) }); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", jobType, spec, err)
	}
	return nil
}

func (s *Scheduler) enqueue(jobType string) {
	job := jobs.Job{ID: uuid.NewString(), Type: jobType}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("scheduled job dropped", zap.String("type", jobType), zap.Error(err))
	}
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("entries", len(s.cron.Entries())))
}

// Stop halts the cron loop and waits for running ticks.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
