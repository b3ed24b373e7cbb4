package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/restaurant-api/internal/application"
	"github.com/example/restaurant-api/internal/booking"
)

type bookingService interface {
	Slots() []booking.Interval
	StartBooking(ctx context.Context, input application.DetailsInput) (application.Draft, error)
	CompleteBooking(ctx context.Context, draftID string, contact application.ContactInput) (application.Reservation, error)
	AbandonBooking(ctx context.Context, draftID string)
}

// BookingHandler serves the public two-step booking flow. Dates are parsed in
// the venue's location so "today" means the venue's calendar day.
type BookingHandler struct {
	service   bookingService
	location  *time.Location
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, location *time.Location, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	if location == nil {
		location = time.Local
	}
	return &BookingHandler{service: service, location: location, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

// Slots lists the bookable intervals.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slots := h.service.Slots()
	dtos := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		dtos = append(dtos, slotDTO{Value: slot.Value, Label: slot.Label})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, slotListResponse{Slots: dtos})
}

// StartBooking validates the event details step and opens a draft.
func (h *BookingHandler) StartBooking(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req detailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "StartBooking", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode details request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input := application.DetailsInput{
		People: req.People,
		Reason: req.Reason,
		Type:   booking.ReservationType(req.Type),
		Slot:   req.TimeSlot,
	}
	if req.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", req.Date, h.location)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		input.Date = date
	}

	draft, err := h.service.StartBooking(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "StartBooking").InfoContext(r.Context(), "booking draft opened", "draft_id", draft.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toDraftDTO(draft))
}

// CompleteBooking validates the contact step and confirms the reservation.
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	draftID, ok := DraftIDFromContext(r.Context())
	if !ok || draftID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDraftID)
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CompleteBooking", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode contact request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	reservation, err := h.service.CompleteBooking(r.Context(), draftID, application.ContactInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CompleteBooking").InfoContext(r.Context(), "booking confirmed", "reservation_id", reservation.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toReservationDTO(reservation))
}

// AbandonBooking discards a pending draft.
func (h *BookingHandler) AbandonBooking(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	draftID, ok := DraftIDFromContext(r.Context())
	if !ok || draftID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDraftID)
		return
	}

	h.service.AbandonBooking(r.Context(), draftID)
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type slotDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type slotListResponse struct {
	Slots []slotDTO `json:"slots"`
}

type detailsRequest struct {
	Date     string `json:"date"`
	People   int    `json:"people"`
	Reason   string `json:"reason"`
	Type     string `json:"type"`
	TimeSlot string `json:"time_slot"`
}

type contactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type draftDTO struct {
	DraftID   string    `json:"draft_id"`
	ExpiresAt string    `json:"expires_at"`
	Slots     []slotDTO `json:"slots"`
}

type reservationDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	People    int    `json:"people"`
	Reason    string `json:"reason"`
	Type      string `json:"type"`
	TimeSlot  string `json:"time_slot,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func toDraftDTO(draft application.Draft) draftDTO {
	slots := make([]slotDTO, 0, len(draft.Slots))
	for _, slot := range draft.Slots {
		slots = append(slots, slotDTO{Value: slot.Value, Label: slot.Label})
	}
	return draftDTO{
		DraftID:   draft.ID,
		ExpiresAt: draft.ExpiresAt.UTC().Format(time.RFC3339),
		Slots:     slots,
	}
}

func toReservationDTO(reservation application.Reservation) reservationDTO {
	dto := reservationDTO{
		ID:       reservation.ID,
		Date:     reservation.Date.Format("2006-01-02"),
		People:   reservation.People,
		Reason:   reservation.Reason,
		Type:     string(reservation.Type),
		TimeSlot: reservation.Slot,
		Name:     reservation.Name,
		Email:    reservation.Email,
		Phone:    reservation.Phone,
	}
	if !reservation.CreatedAt.IsZero() {
		dto.CreatedAt = reservation.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !reservation.UpdatedAt.IsZero() {
		dto.UpdatedAt = reservation.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
