package service

import (
	"context"
	"fmt"

	"rentops-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// emailNotifier delivers lifecycle notifications to the tenant's rental desk
// inbox via SendGrid. Customer-facing delivery belongs to the CRM side of
// the house; the engine only reports what happened.
type emailNotifier struct {
	apiKey   string
	from     string
	fromName string
	deskTo   string
}

func NewEmailNotifier(apiKey, from, fromName, deskTo string) Notifier {
	return &emailNotifier{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
		deskTo:   deskTo,
	}
}

func (n *emailNotifier) send(subject, body string) error {
	from := mail.NewEmail(n.fromName, n.from)
	to := mail.NewEmail("Rental Desk", n.deskTo)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(n.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (n *emailNotifier) NotifyBooked(ctx context.Context, res *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation R-%06d booked", res.ReservationNo)
	body := fmt.Sprintf("Reservation R-%06d for customer %d was booked.\n\nWindow: %s to %s\nLine items: %d\nTotal: %d cents\n",
		res.ReservationNo, res.CustomerID,
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"),
		len(res.Items), res.TotalCents)
	return n.send(subject, body)
}

func (n *emailNotifier) NotifyConfirmed(ctx context.Context, res *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation R-%06d confirmed", res.ReservationNo)
	body := fmt.Sprintf("Reservation R-%06d was confirmed for pickup on %s.\n",
		res.ReservationNo, res.StartDate.Format("2006-01-02"))
	return n.send(subject, body)
}

func (n *emailNotifier) NotifyReturned(ctx context.Context, res *domain.Reservation, fees *FeeSummary) error {
	subject := fmt.Sprintf("Reservation R-%06d returned", res.ReservationNo)
	body := fmt.Sprintf("Reservation R-%06d was returned.\n", res.ReservationNo)
	if fees != nil && fees.TotalCents > 0 {
		body += fmt.Sprintf("\nAdditional fees assessed: %d cents (late: %d, damage: %d).\n",
			fees.TotalCents, fees.LateFeeCents, fees.DamageFeeCents)
	}
	return n.send(subject, body)
}

func (n *emailNotifier) NotifyCancelled(ctx context.Context, res *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation R-%06d cancelled", res.ReservationNo)
	body := fmt.Sprintf("Reservation R-%06d was cancelled and its inventory released.\n", res.ReservationNo)
	return n.send(subject, body)
}

func (n *emailNotifier) NotifyOverdue(ctx context.Context, res *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation R-%06d overdue", res.ReservationNo)
	body := fmt.Sprintf("Reservation R-%06d was due back on %s and has not been returned.\n",
		res.ReservationNo, res.EndDate.Format("2006-01-02"))
	return n.send(subject, body)
}
