package jobs

import (
	"context"
	"time"

	"rentops-backend/internal/logger"
)

// JobRunner wraps scheduled jobs with panic recovery and timing so a single
// misbehaving job cannot take down the cron process.
type JobRunner struct {
	jobs *ReservationJobs
}

func NewJobRunner(jobs *ReservationJobs) *JobRunner {
	return &JobRunner{jobs: jobs}
}

func (r *JobRunner) runWithRecovery(name string, fn func(ctx context.Context) error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("job panicked", "job", name, "panic", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	logger.Info("job started", "job", name)

	if err := fn(ctx); err != nil {
		logger.Error("job failed", "job", name, "error", err, "duration", time.Since(start))
		return
	}

	logger.Info("job finished", "job", name, "duration", time.Since(start))
}

// SendOverdueReminders runs the overdue reminder sweep.
func (r *JobRunner) SendOverdueReminders() {
	r.runWithRecovery("send_overdue_reminders", r.jobs.SendOverdueReminders)
}
