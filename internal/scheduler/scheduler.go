package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"rentops-backend/internal/config"
	"rentops-backend/internal/jobs"
	"rentops-backend/internal/logger"
)

// Scheduler owns the cron instance and the schedule-to-job wiring.
type Scheduler struct {
	cron   *cron.Cron
	runner *jobs.JobRunner
	cfg    *config.SchedulerConfig
}

func New(runner *jobs.JobRunner, cfg *config.SchedulerConfig) *Scheduler {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(time.UTC),
	)
	return &Scheduler{
		cron:   c,
		runner: runner,
		cfg:    cfg,
	}
}

// Start registers all jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.SendOverdueReminders, s.runner.SendOverdueReminders); err != nil {
		return err
	}
	logger.Info("scheduler started", "send_overdue_reminders", s.cfg.SendOverdueReminders)
	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish before returning.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("scheduler stopped")
}
