package jobs

import (
	"context"
	"time"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/logger"
	"rentops-backend/internal/repository"
	"rentops-backend/internal/service"
)

// ReservationJobs holds the periodic maintenance work that runs outside the
// request path.
type ReservationJobs struct {
	reservations repository.ReservationRepository
	notifier     service.Notifier
}

func NewReservationJobs(reservations repository.ReservationRepository, notifier service.Notifier) *ReservationJobs {
	return &ReservationJobs{
		reservations: reservations,
		notifier:     notifier,
	}
}

// SendOverdueReminders finds reservations whose window has ended without a
// recorded return and nudges the rental desk about each one. Reminders are
// best-effort; a delivery failure is logged and the sweep keeps going.
func (j *ReservationJobs) SendOverdueReminders(ctx context.Context) error {
	overdue, err := j.reservations.ListEndedBefore(ctx, time.Now().UTC(), []domain.ReservationStatus{
		domain.ReservationStatusPending,
		domain.ReservationStatusConfirmed,
	})
	if err != nil {
		return err
	}

	sent := 0
	for i := range overdue {
		res := &overdue[i]
		if err := j.notifier.NotifyOverdue(ctx, res); err != nil {
			logger.Warn("overdue reminder failed",
				"org_id", res.OrgID,
				"reservation_id", res.ID,
				"error", err)
			continue
		}
		sent++
	}

	logger.Info("overdue sweep complete", "overdue", len(overdue), "reminders_sent", sent)
	return nil
}
