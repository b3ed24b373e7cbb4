package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/restaurant-api/internal/booking"
	"github.com/example/restaurant-api/internal/persistence"
)

// ReservationService exposes the back-office view over reservations. Every
// record is keyed by its stable ID; edits re-run the availability decision
// against the other records on the target date.
type ReservationService struct {
	reservations ReservationRepository
	cfg          BookingConfig
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService wires dependencies for back-office reservation
// management.
func NewReservationService(reservations ReservationRepository, cfg BookingConfig, now func() time.Time, logger *slog.Logger) *ReservationService {
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		cfg:          cfg.withDefaults(),
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// ListReservations enumerates reservations for staff, optionally narrowed to
// one calendar date or a time range.
func (s *ReservationService) ListReservations(ctx context.Context, params ListReservationsParams) ([]Reservation, error) {
	if s == nil {
		return nil, fmt.Errorf("ReservationService is nil")
	}
	if !params.Principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	if s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}

	return s.reservations.ListReservations(ctx, ReservationRepositoryFilter{
		DateKey: params.DateKey,
		From:    params.From,
		Until:   params.Until,
	})
}

// GetReservation fetches one reservation by ID.
func (s *ReservationService) GetReservation(ctx context.Context, principal Principal, id string) (Reservation, error) {
	if s == nil {
		return Reservation{}, fmt.Errorf("ReservationService is nil")
	}
	if !principal.IsAdmin {
		return Reservation{}, ErrUnauthorized
	}

	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, mapRepoError(err)
	}
	return reservation, nil
}

// UpdateReservation rewrites a reservation in place. The capacity rules are
// re-evaluated with the edited record excluded from its own snapshot.
func (s *ReservationService) UpdateReservation(ctx context.Context, principal Principal, id string, input ReservationInput) (Reservation, error) {
	if s == nil {
		return Reservation{}, fmt.Errorf("ReservationService is nil")
	}
	if !principal.IsAdmin {
		return Reservation{}, ErrUnauthorized
	}

	logger := serviceLogger(ctx, s.logger, "ReservationService", "UpdateReservation", "reservation_id", id)

	existing, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, mapRepoError(err)
	}

	if err := s.validateInput(input); err != nil {
		return Reservation{}, err
	}

	updated := existing
	updated.Date = input.Date
	updated.People = input.People
	updated.Reason = strings.TrimSpace(input.Reason)
	updated.Type = input.Type
	updated.Slot = input.Slot
	updated.Name = strings.TrimSpace(input.Name)
	updated.Email = strings.TrimSpace(input.Email)
	updated.Phone = strings.TrimSpace(input.Phone)
	updated.UpdatedAt = s.now()
	if updated.Type == booking.TypeFullVenue {
		updated.Slot = ""
	}

	err = s.reservations.UpdateIfAvailable(ctx, updated, func(others []Reservation) error {
		snapshot := make([]booking.Reservation, 0, len(others))
		for _, r := range others {
			snapshot = append(snapshot, booking.Reservation{Date: r.Date, People: r.People, Type: r.Type, Slot: r.Slot})
		}
		decision := booking.Check(snapshot, booking.Reservation{
			Date:   updated.Date,
			People: updated.People,
			Type:   updated.Type,
			Slot:   updated.Slot,
		}, s.cfg.Capacity, s.cfg.Location)
		if !decision.OK {
			return ErrNoCapacity
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoCapacity) {
			logger.InfoContext(ctx, "edit rejected for capacity")
			return Reservation{}, ErrNoCapacity
		}
		logger.ErrorContext(ctx, "failed to update reservation", "error", err, "error_kind", ErrorKind(err))
		return Reservation{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "reservation updated")
	return updated, nil
}

// DeleteReservation removes a reservation by ID.
func (s *ReservationService) DeleteReservation(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("ReservationService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := serviceLogger(ctx, s.logger, "ReservationService", "DeleteReservation", "reservation_id", id)

	if err := s.reservations.DeleteReservation(ctx, id); err != nil {
		return mapRepoError(err)
	}
	logger.InfoContext(ctx, "reservation deleted")
	return nil
}

// validateInput mirrors the public validation rules except that past dates
// are allowed: staff may correct historical records.
func (s *ReservationService) validateInput(input ReservationInput) error {
	if input.Date.IsZero() {
		return fieldError("date", "date is required")
	}
	if input.People < 1 || input.People > s.cfg.Capacity {
		return fieldError("people", fmt.Sprintf("party size must be between 1 and %d", s.cfg.Capacity))
	}
	if strings.TrimSpace(input.Reason) == "" {
		return fieldError("reason", "reason is required")
	}

	switch input.Type {
	case booking.TypeSpecificTime:
		slots := booking.Intervals(s.cfg.OpeningAt, s.cfg.ClosingAt, s.cfg.SlotLength, s.cfg.SlotStep)
		if strings.TrimSpace(input.Slot) == "" {
			return fieldError("time", "time slot is required")
		}
		if !booking.ValidSlot(slots, input.Slot) {
			return fieldError("time", "time slot is not available")
		}
	case booking.TypeFullVenue:
	default:
		return fieldError("type", "reservation type must be specific-time or full-venue")
	}

	return validateContact(ContactInput{Name: input.Name, Email: input.Email, Phone: input.Phone})
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrConstraintViolation):
		return fieldError("people", "record violates storage constraints")
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return fieldError("ingredients", "related records are missing")
	}
	return err
}
