package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/restaurant-api/internal/application"
	"github.com/example/restaurant-api/internal/booking"
)

type reservationService interface {
	ListReservations(ctx context.Context, params application.ListReservationsParams) ([]application.Reservation, error)
	GetReservation(ctx context.Context, principal application.Principal, id string) (application.Reservation, error)
	UpdateReservation(ctx context.Context, principal application.Principal, id string, input application.ReservationInput) (application.Reservation, error)
	DeleteReservation(ctx context.Context, principal application.Principal, id string) error
}

// ReservationHandler serves the back-office reservation endpoints. The
// router mounts it behind the session middleware.
type ReservationHandler struct {
	service   reservationService
	location  *time.Location
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, location *time.Location, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	if location == nil {
		location = time.Local
	}
	return &ReservationHandler{service: service, location: location, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	params := application.ListReservationsParams{Principal: principal}

	query := r.URL.Query()
	if date := query.Get("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		params.DateKey = date
	}
	if from := query.Get("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("from must be an RFC 3339 timestamp"))
			return
		}
		params.From = &parsed
	}
	if until := query.Get("until"); until != "" {
		parsed, err := time.Parse(time.RFC3339, until)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("until must be an RFC 3339 timestamp"))
			return
		}
		params.Until = &parsed
	}

	reservations, err := h.service.ListReservations(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		dtos = append(dtos, toReservationDTO(reservation))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationListResponse{Reservations: dtos})
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ReservationIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	reservation, err := h.service.GetReservation(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toReservationDTO(reservation))
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ReservationIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	var req reservationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input := application.ReservationInput{
		People: req.People,
		Reason: req.Reason,
		Type:   booking.ReservationType(req.Type),
		Slot:   req.TimeSlot,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
	}
	if req.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", req.Date, h.location)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		input.Date = date
	}

	principal, _ := PrincipalFromContext(r.Context())
	reservation, err := h.service.UpdateReservation(r.Context(), principal, id, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Update").InfoContext(r.Context(), "reservation updated", "reservation_id", id)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toReservationDTO(reservation))
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ReservationIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteReservation(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Delete").InfoContext(r.Context(), "reservation deleted", "reservation_id", id)
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type reservationUpdateRequest struct {
	Date     string `json:"date"`
	People   int    `json:"people"`
	Reason   string `json:"reason"`
	Type     string `json:"type"`
	TimeSlot string `json:"time_slot"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type reservationListResponse struct {
	Reservations []reservationDTO `json:"reservations"`
}
