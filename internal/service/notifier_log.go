package service

import (
	"context"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/logger"
)

// logNotifier writes notifications to the log. Used when no email
// integration is configured.
type logNotifier struct{}

func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) NotifyBooked(ctx context.Context, res *domain.Reservation) error {
	logger.Info("Reservation booked", "org_id", res.OrgID, "reservation_no", res.ReservationNo, "total_cents", res.TotalCents)
	return nil
}

func (logNotifier) NotifyConfirmed(ctx context.Context, res *domain.Reservation) error {
	logger.Info("Reservation confirmed", "org_id", res.OrgID, "reservation_no", res.ReservationNo)
	return nil
}

func (logNotifier) NotifyReturned(ctx context.Context, res *domain.Reservation, fees *FeeSummary) error {
	var feeCents int64
	if fees != nil {
		feeCents = fees.TotalCents
	}
	logger.Info("Reservation returned", "org_id", res.OrgID, "reservation_no", res.ReservationNo, "fee_cents", feeCents)
	return nil
}

func (logNotifier) NotifyCancelled(ctx context.Context, res *domain.Reservation) error {
	logger.Info("Reservation cancelled", "org_id", res.OrgID, "reservation_no", res.ReservationNo)
	return nil
}

func (logNotifier) NotifyOverdue(ctx context.Context, res *domain.Reservation) error {
	logger.Info("Reservation overdue", "org_id", res.OrgID, "reservation_no", res.ReservationNo, "due", res.EndDate)
	return nil
}
