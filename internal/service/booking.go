package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"rentops-backend/internal/availability"
	"rentops-backend/internal/domain"
	"rentops-backend/internal/events"
	"rentops-backend/internal/idempotency"
	"rentops-backend/internal/logger"
	"rentops-backend/internal/pricing"
	"rentops-backend/internal/repository"
)

// BookingConfig carries the tunables of the lifecycle service.
type BookingConfig struct {
	// DamageFeeCents is the flat surcharge applied when a returning agent
	// flags physical damage.
	DamageFeeCents int64
	// IdempotencyTTL bounds how long a booking key is remembered in the
	// fast-path store. The database unique constraint has no expiry.
	IdempotencyTTL time.Duration
}

type bookingService struct {
	txm          repository.TxManager
	reservations repository.ReservationRepository
	products     repository.ProductRepository
	charges      repository.ChargeRepository
	checker      *availability.Checker
	idem         idempotency.Store
	notifier     Notifier
	publisher    events.Publisher
	tax          TaxProvider
	cfg          BookingConfig
}

func NewBookingService(
	txm repository.TxManager,
	reservations repository.ReservationRepository,
	products repository.ProductRepository,
	charges repository.ChargeRepository,
	idem idempotency.Store,
	notifier Notifier,
	publisher events.Publisher,
	tax TaxProvider,
	cfg BookingConfig,
) BookingService {
	return &bookingService{
		txm:          txm,
		reservations: reservations,
		products:     products,
		charges:      charges,
		checker:      availability.NewChecker(reservations),
		idem:         idem,
		notifier:     notifier,
		publisher:    publisher,
		tax:          tax,
		cfg:          cfg,
	}
}

func (s *bookingService) Book(ctx context.Context, req *BookingRequest) (*domain.Reservation, *PricingSummary, error) {
	if !req.StartDate.Before(req.EndDate) {
		return nil, nil, domain.ErrInvalidWindow
	}
	if len(req.Items) == 0 {
		return nil, nil, domain.ErrEmptyBooking
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, nil, fmt.Errorf("product %d: %w", it.ProductID, domain.ErrInvalidQuantity)
		}
	}

	// A retried request with a known key returns the reservation committed
	// by the first attempt, with no further side effects.
	if req.IdempotencyKey != "" {
		if existing, ok := s.lookupIdempotent(ctx, req.OrgID, req.IdempotencyKey); ok {
			return existing, s.summaryOf(existing), nil
		}
	}

	days := pricing.RentalDays(req.StartDate, req.EndDate)

	// Lock products in a stable order so concurrent multi-line bookings
	// cannot deadlock on each other.
	lineItems := make([]BookingItem, len(req.Items))
	copy(lineItems, req.Items)
	sort.Slice(lineItems, func(i, j int) bool { return lineItems[i].ProductID < lineItems[j].ProductID })

	var res *domain.Reservation
	var summary *PricingSummary

	err := s.txm.WithinTx(ctx, func(tx *sql.Tx) error {
		items := make([]domain.ReservationItem, 0, len(lineItems))
		lines := make([]LineQuote, 0, len(lineItems))
		var subtotal int64

		for _, li := range lineItems {
			product, err := s.products.GetForUpdateTx(ctx, tx, req.OrgID, li.ProductID)
			if err != nil {
				return fmt.Errorf("product %d: %w", li.ProductID, err)
			}
			if !product.Active {
				return fmt.Errorf("product %d: %w", product.ID, domain.ErrInactiveProduct)
			}

			check, err := s.checker.Check(ctx, tx, product, req.StartDate, req.EndDate, li.Quantity)
			if err != nil {
				return err
			}
			if !check.Available {
				return &domain.InsufficientAvailabilityError{
					ProductID: product.ID,
					Requested: li.Quantity,
					Free:      check.FreeQuantity,
					Conflicts: check.Conflicts,
				}
			}

			quote := pricing.Price(product.DailyRateCents, product.WeeklyRateCents, product.MonthlyRateCents, days)
			lineTotal := quote.BasePriceCents * int64(li.Quantity)
			items = append(items, domain.ReservationItem{
				ProductID:      product.ID,
				Quantity:       li.Quantity,
				UnitPriceCents: quote.BasePriceCents,
				DailyRateCents: product.DailyRateCents,
				TariffType:     string(quote.TariffType),
				LineTotalCents: lineTotal,
			})
			lines = append(lines, LineQuote{
				ProductID:      product.ID,
				Quantity:       li.Quantity,
				Quote:          quote,
				LineTotalCents: lineTotal,
			})
			subtotal += lineTotal
		}

		discount := pricing.Discount(subtotal, days)
		tax, err := s.tax.TaxCents(ctx, req.OrgID, subtotal-discount)
		if err != nil {
			return fmt.Errorf("tax quote: %w", err)
		}
		total := subtotal - discount + tax

		res = &domain.Reservation{
			OrgID:          req.OrgID,
			CustomerID:     req.CustomerID,
			IdempotencyKey: req.IdempotencyKey,
			Items:          items,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			Status:         domain.ReservationStatusPending,
			SubtotalCents:  subtotal,
			DiscountCents:  discount,
			TaxCents:       tax,
			TotalCents:     total,
		}
		if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
			return err
		}
		for _, it := range items {
			if err := s.products.AdjustQuantityTx(ctx, tx, req.OrgID, it.ProductID, -it.Quantity); err != nil {
				return err
			}
		}

		summary = &PricingSummary{
			Days:          days,
			Lines:         lines,
			SubtotalCents: subtotal,
			DiscountCents: discount,
			TaxCents:      tax,
			TotalCents:    total,
		}
		return nil
	})
	if err != nil {
		// A duplicate key means a prior attempt committed but the caller
		// never saw the acknowledgement. Hand back that reservation.
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) && req.IdempotencyKey != "" {
			if existing, gerr := s.reservations.GetByIdempotencyKey(ctx, req.OrgID, req.IdempotencyKey); gerr == nil {
				return existing, s.summaryOf(existing), nil
			}
		}
		return nil, nil, err
	}

	if req.IdempotencyKey != "" {
		if err := s.idem.Set(ctx, req.OrgID, req.IdempotencyKey, res.ID, s.cfg.IdempotencyTTL); err != nil {
			logger.Warn("Failed to record idempotency key", "org_id", req.OrgID, "error", err)
		}
	}
	s.notify("booked", func() error { return s.notifier.NotifyBooked(ctx, res) })
	s.publish(ctx, events.ReservationEvent{
		Type:          events.EventReservationBooked,
		OrgID:         res.OrgID,
		ReservationID: res.ID,
		ReservationNo: res.ReservationNo,
		TotalCents:    res.TotalCents,
	})
	return res, summary, nil
}

// lookupIdempotent checks the fast-path store and the database authority for
// a previously committed booking with the given key.
func (s *bookingService) lookupIdempotent(ctx context.Context, orgID int64, key string) (*domain.Reservation, bool) {
	if id, ok, err := s.idem.Get(ctx, orgID, key); err != nil {
		logger.Warn("Idempotency store lookup failed", "org_id", orgID, "error", err)
	} else if ok {
		if res, err := s.reservations.GetByID(ctx, nil, orgID, id); err == nil {
			return res, true
		}
	}
	res, err := s.reservations.GetByIdempotencyKey(ctx, orgID, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Idempotency key lookup failed", "org_id", orgID, "error", err)
		}
		return nil, false
	}
	return res, true
}

func (s *bookingService) Confirm(ctx context.Context, orgID, reservationID int64) (*domain.Reservation, error) {
	res, err := s.transition(ctx, orgID, reservationID, domain.ReservationStatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.notify("confirmed", func() error { return s.notifier.NotifyConfirmed(ctx, res) })
	s.publish(ctx, events.ReservationEvent{
		Type:          events.EventReservationConfirmed,
		OrgID:         res.OrgID,
		ReservationID: res.ID,
		ReservationNo: res.ReservationNo,
		TotalCents:    res.TotalCents,
	})
	return res, nil
}

func (s *bookingService) Complete(ctx context.Context, orgID, reservationID int64) (*domain.Reservation, error) {
	// Administrative close; inventory was already released on return.
	return s.transition(ctx, orgID, reservationID, domain.ReservationStatusCompleted)
}

// transition applies a pure status change with no inventory effect.
func (s *bookingService) transition(ctx context.Context, orgID, reservationID int64, next domain.ReservationStatus) (*domain.Reservation, error) {
	var res *domain.Reservation
	err := s.txm.WithinTx(ctx, func(tx *sql.Tx) error {
		r, err := s.reservations.GetByID(ctx, tx, orgID, reservationID)
		if err != nil {
			return err
		}
		if !r.Status.CanTransitionTo(next) {
			return &domain.InvalidTransitionError{From: r.Status, To: next}
		}
		if err := s.reservations.UpdateStatusTx(ctx, tx, orgID, reservationID, next); err != nil {
			return err
		}
		r.Status = next
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *bookingService) Return(ctx context.Context, req *ReturnRequest) (*domain.Reservation, *FeeSummary, error) {
	fees := &FeeSummary{}
	var res *domain.Reservation

	err := s.txm.WithinTx(ctx, func(tx *sql.Tx) error {
		r, err := s.reservations.GetByID(ctx, tx, req.OrgID, req.ReservationID)
		if err != nil {
			return err
		}
		switch r.Status {
		case domain.ReservationStatusReturned, domain.ReservationStatusCompleted:
			return domain.ErrAlreadyReturned
		}
		if !r.Status.CanTransitionTo(domain.ReservationStatusReturned) {
			return &domain.InvalidTransitionError{From: r.Status, To: domain.ReservationStatusReturned}
		}

		at := req.ActualReturn
		if at.IsZero() {
			at = time.Now()
		}

		var lateTotal int64
		for _, it := range r.Items {
			lateTotal += pricing.LateFee(r.EndDate, at, it.DailyRateCents) * int64(it.Quantity)
		}
		if lateTotal > 0 {
			charge := &domain.Charge{
				OrgID:         r.OrgID,
				ReservationID: r.ID,
				Type:          domain.ChargeTypeLateFee,
				AmountCents:   lateTotal,
				Description:   fmt.Sprintf("Late return of reservation R-%06d", r.ReservationNo),
				Status:        domain.ChargeStatusPending,
			}
			if err := s.charges.CreateTx(ctx, tx, charge); err != nil {
				return err
			}
			fees.LateFeeCents = lateTotal
			fees.Charges = append(fees.Charges, *charge)
		}
		if req.Damaged && s.cfg.DamageFeeCents > 0 {
			charge := &domain.Charge{
				OrgID:         r.OrgID,
				ReservationID: r.ID,
				Type:          domain.ChargeTypeDamageFee,
				AmountCents:   s.cfg.DamageFeeCents,
				Description:   fmt.Sprintf("Damage on return of reservation R-%06d", r.ReservationNo),
				Status:        domain.ChargeStatusPending,
			}
			if err := s.charges.CreateTx(ctx, tx, charge); err != nil {
				return err
			}
			fees.DamageFeeCents = s.cfg.DamageFeeCents
			fees.Charges = append(fees.Charges, *charge)
		}

		r.Status = domain.ReservationStatusReturned
		r.ActualReturn = &at
		r.ReturnCondition = req.Condition
		if err := s.reservations.UpdateReturnTx(ctx, tx, r); err != nil {
			return err
		}
		for _, it := range r.Items {
			if err := s.products.AdjustQuantityTx(ctx, tx, r.OrgID, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	fees.TotalCents = fees.LateFeeCents + fees.DamageFeeCents
	s.notify("returned", func() error { return s.notifier.NotifyReturned(ctx, res, fees) })
	s.publish(ctx, events.ReservationEvent{
		Type:          events.EventReservationReturned,
		OrgID:         res.OrgID,
		ReservationID: res.ID,
		ReservationNo: res.ReservationNo,
		TotalCents:    res.TotalCents,
		FeeCents:      fees.TotalCents,
	})
	return res, fees, nil
}

func (s *bookingService) Cancel(ctx context.Context, orgID, reservationID int64) (*domain.Reservation, error) {
	var res *domain.Reservation
	err := s.txm.WithinTx(ctx, func(tx *sql.Tx) error {
		r, err := s.reservations.GetByID(ctx, tx, orgID, reservationID)
		if err != nil {
			return err
		}
		if !r.Status.CanTransitionTo(domain.ReservationStatusCancelled) {
			return &domain.InvalidTransitionError{From: r.Status, To: domain.ReservationStatusCancelled}
		}
		if err := s.reservations.UpdateStatusTx(ctx, tx, orgID, reservationID, domain.ReservationStatusCancelled); err != nil {
			return err
		}
		for _, it := range r.Items {
			if err := s.products.AdjustQuantityTx(ctx, tx, orgID, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		r.Status = domain.ReservationStatusCancelled
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify("cancelled", func() error { return s.notifier.NotifyCancelled(ctx, res) })
	s.publish(ctx, events.ReservationEvent{
		Type:          events.EventReservationCancelled,
		OrgID:         res.OrgID,
		ReservationID: res.ID,
		ReservationNo: res.ReservationNo,
		TotalCents:    res.TotalCents,
	})
	return res, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, orgID, productID int64, start, end time.Time, quantity int32) (*availability.Result, error) {
	if !start.Before(end) {
		return nil, domain.ErrInvalidWindow
	}
	product, err := s.products.GetByID(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	return s.checker.Check(ctx, nil, product, start, end, quantity)
}

// summaryOf rebuilds a pricing summary from a stored reservation so retried
// bookings get the same response shape as the first attempt.
func (s *bookingService) summaryOf(res *domain.Reservation) *PricingSummary {
	days := pricing.RentalDays(res.StartDate, res.EndDate)
	lines := make([]LineQuote, 0, len(res.Items))
	for _, it := range res.Items {
		lines = append(lines, LineQuote{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Quote: pricing.Quote{
				Days:           days,
				TariffType:     pricing.TariffType(it.TariffType),
				BasePriceCents: it.UnitPriceCents,
			},
			LineTotalCents: it.LineTotalCents,
		})
	}
	return &PricingSummary{
		Days:          days,
		Lines:         lines,
		SubtotalCents: res.SubtotalCents,
		DiscountCents: res.DiscountCents,
		TaxCents:      res.TaxCents,
		TotalCents:    res.TotalCents,
	}
}

func (s *bookingService) notify(event string, fn func() error) {
	if s.notifier == nil {
		return
	}
	if err := fn(); err != nil {
		logger.Warn("Notification failed", "event", event, "error", err)
	}
}

func (s *bookingService) publish(ctx context.Context, ev events.ReservationEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.Warn("Event publish failed", "type", ev.Type, "error", err)
	}
}
