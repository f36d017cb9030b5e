package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/logger"
	"rentops-backend/internal/service"
)

// ReservationHandler exposes the reservation lifecycle over HTTP
type ReservationHandler struct {
	booking service.BookingService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(booking service.BookingService) *ReservationHandler {
	return &ReservationHandler{booking: booking}
}

// RegisterRoutes registers the reservation endpoints
func (h *ReservationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/reservations", h.HandleBook).Methods("POST")
	router.HandleFunc("/api/v1/reservations/{id}/confirm", h.HandleConfirm).Methods("POST")
	router.HandleFunc("/api/v1/reservations/{id}/return", h.HandleReturn).Methods("POST")
	router.HandleFunc("/api/v1/reservations/{id}/cancel", h.HandleCancel).Methods("POST")
	router.HandleFunc("/api/v1/reservations/{id}/complete", h.HandleComplete).Methods("POST")
	router.HandleFunc("/api/v1/availability", h.HandleCheckAvailability).Methods("GET")
}

// HandleBook handles POST /api/v1/reservations
func (h *ReservationHandler) HandleBook(w http.ResponseWriter, r *http.Request) {
	var body BookReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	req := &service.BookingRequest{
		OrgID:          body.OrgID,
		CustomerID:     body.CustomerID,
		IdempotencyKey: body.IdempotencyKey,
		StartDate:      body.StartDate,
		EndDate:        body.EndDate,
	}
	for _, it := range body.Items {
		req.Items = append(req.Items, service.BookingItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	res, pricing, err := h.booking.Book(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ReservationResponse{Reservation: res, Pricing: pricing})
}

// HandleConfirm handles POST /api/v1/reservations/{id}/confirm
func (h *ReservationHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := reservationParams(w, r)
	if !ok {
		return
	}
	res, err := h.booking.Confirm(r.Context(), orgID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReservationResponse{Reservation: res})
}

// HandleReturn handles POST /api/v1/reservations/{id}/return
func (h *ReservationHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body ReturnReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	req := &service.ReturnRequest{
		OrgID:         body.OrgID,
		ReservationID: id,
		Condition:     body.Condition,
		Damaged:       body.Damaged,
	}
	if body.ActualReturn != nil {
		req.ActualReturn = *body.ActualReturn
	}

	res, fees, err := h.booking.Return(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReservationResponse{Reservation: res, Fees: fees})
}

// HandleCancel handles POST /api/v1/reservations/{id}/cancel
func (h *ReservationHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := reservationParams(w, r)
	if !ok {
		return
	}
	res, err := h.booking.Cancel(r.Context(), orgID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReservationResponse{Reservation: res})
}

// HandleComplete handles POST /api/v1/reservations/{id}/complete
func (h *ReservationHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := reservationParams(w, r)
	if !ok {
		return
	}
	res, err := h.booking.Complete(r.Context(), orgID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReservationResponse{Reservation: res})
}

// HandleCheckAvailability handles GET /api/v1/availability
func (h *ReservationHandler) HandleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orgID, err1 := strconv.ParseInt(q.Get("org_id"), 10, 64)
	productID, err2 := strconv.ParseInt(q.Get("product_id"), 10, 64)
	start, err3 := time.Parse(time.RFC3339, q.Get("start"))
	end, err4 := time.Parse(time.RFC3339, q.Get("end"))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		writeError(w, http.StatusBadRequest, "org_id, product_id, start and end are required", nil)
		return
	}
	quantity := int32(1)
	if raw := q.Get("quantity"); raw != "" {
		qty, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || qty <= 0 {
			writeError(w, http.StatusBadRequest, "quantity must be a positive integer", nil)
			return
		}
		quantity = int32(qty)
	}

	result, err := h.booking.CheckAvailability(r.Context(), orgID, productID, start, end, quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{
		ProductID:    productID,
		Available:    result.Available,
		FreeQuantity: result.FreeQuantity,
		Conflicts:    result.Conflicts,
	})
}

func reservationParams(w http.ResponseWriter, r *http.Request) (orgID, id int64, ok bool) {
	id, ok = pathID(w, r)
	if !ok {
		return 0, 0, false
	}
	orgID, err := strconv.ParseInt(r.URL.Query().Get("org_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "org_id is required", nil)
		return 0, 0, false
	}
	return orgID, id, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reservation id", nil)
		return 0, false
	}
	return id, true
}

// writeServiceError maps domain errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var transitionErr *domain.InvalidTransitionError
	var availErr *domain.InsufficientAvailabilityError

	switch {
	case errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrEmptyBooking),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInactiveProduct):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "reservation not found", nil)
	case errors.Is(err, domain.ErrAlreadyReturned):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case errors.As(err, &transitionErr):
		writeError(w, http.StatusConflict, transitionErr.Error(), nil)
	case errors.As(err, &availErr):
		writeError(w, http.StatusConflict, availErr.Error(), map[string]any{
			"product_id": availErr.ProductID,
			"requested":  availErr.Requested,
			"free":       availErr.Free,
			"conflicts":  availErr.Conflicts,
		})
	case errors.Is(err, domain.ErrTxConflict), errors.Is(err, domain.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable, retry with the same idempotency key", nil)
	default:
		logger.Error("Unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, ErrorResponse{Error: msg, Details: details})
}
