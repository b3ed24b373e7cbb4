package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/example/restaurant-api/internal/booking"
)

// ReservationRepository captures the persistence interactions needed by the
// booking and reservation services. The *IfAvailable operations run the
// decision function over the candidate's same-date records atomically with
// the write.
type ReservationRepository interface {
	CreateIfAvailable(ctx context.Context, reservation Reservation, decide func(existing []Reservation) error) error
	UpdateIfAvailable(ctx context.Context, reservation Reservation, decide func(existing []Reservation) error) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context, filter ReservationRepositoryFilter) ([]Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

// ReservationRepositoryFilter narrows queries issued to the reservation
// repository.
type ReservationRepositoryFilter struct {
	DateKey string
	From    *time.Time
	Until   *time.Time
}

// BookingConfig carries the venue parameters the booking flow operates under.
type BookingConfig struct {
	Capacity   int
	OpeningAt  time.Duration
	ClosingAt  time.Duration
	SlotLength time.Duration
	SlotStep   time.Duration
	Location   *time.Location
	DraftTTL   time.Duration
}

func (c BookingConfig) withDefaults() BookingConfig {
	if c.Capacity <= 0 {
		c.Capacity = booking.DefaultCapacity
	}
	if c.OpeningAt == 0 && c.ClosingAt == 0 {
		c.OpeningAt = booking.DefaultOpen
		c.ClosingAt = booking.DefaultClose
	}
	if c.SlotLength <= 0 {
		c.SlotLength = booking.DefaultSlotSize
	}
	if c.SlotStep <= 0 {
		c.SlotStep = booking.DefaultStep
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.DraftTTL <= 0 {
		c.DraftTTL = 30 * time.Minute
	}
	return c
}

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// BookingService orchestrates the two-step public booking flow: event
// details first, contact details second, with the availability decision and
// the insert executed atomically on completion.
type BookingService struct {
	reservations ReservationRepository
	cfg          BookingConfig
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger

	mu     sync.Mutex
	drafts map[string]Draft
}

// NewBookingService wires dependencies for the public booking flow.
func NewBookingService(reservations ReservationRepository, cfg BookingConfig, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		reservations: reservations,
		cfg:          cfg.withDefaults(),
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
		drafts:       make(map[string]Draft),
	}
}

// Slots returns the bookable intervals for the configured operating hours.
func (s *BookingService) Slots() []booking.Interval {
	return booking.Intervals(s.cfg.OpeningAt, s.cfg.ClosingAt, s.cfg.SlotLength, s.cfg.SlotStep)
}

// StartBooking validates the event details step and stores a draft awaiting
// contact details. Checks run in a fixed order and the first failure wins.
func (s *BookingService) StartBooking(ctx context.Context, input DetailsInput) (Draft, error) {
	if s == nil {
		return Draft{}, fmt.Errorf("BookingService is nil")
	}

	logger := serviceLogger(ctx, s.logger, "BookingService", "StartBooking")

	now := s.now()
	if err := s.validateDetails(input, now); err != nil {
		logger.InfoContext(ctx, "details step rejected", "error_kind", ErrorKind(err))
		return Draft{}, err
	}

	if input.Type == booking.TypeFullVenue {
		input.Slot = ""
	}
	input.Reason = strings.TrimSpace(input.Reason)

	draft := Draft{
		ID:        s.idGenerator(),
		Details:   input,
		Slots:     s.Slots(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.DraftTTL),
	}

	s.mu.Lock()
	s.pruneExpiredLocked(now)
	s.drafts[draft.ID] = draft
	s.mu.Unlock()

	logger.InfoContext(ctx, "booking draft created", "draft_id", draft.ID, "type", string(input.Type))
	return draft, nil
}

// GetDraft returns a pending draft by ID.
func (s *BookingService) GetDraft(ctx context.Context, draftID string) (Draft, error) {
	if s == nil {
		return Draft{}, fmt.Errorf("BookingService is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(s.now())

	draft, ok := s.drafts[draftID]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return draft, nil
}

// CompleteBooking validates the contact step, merges the full record, and
// reserves it if capacity remains. On a capacity rejection the draft is kept
// so the caller stays on the contact step; on success it is discarded.
func (s *BookingService) CompleteBooking(ctx context.Context, draftID string, contact ContactInput) (Reservation, error) {
	if s == nil {
		return Reservation{}, fmt.Errorf("BookingService is nil")
	}
	if s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "BookingService", "CompleteBooking", "draft_id", draftID)

	now := s.now()

	s.mu.Lock()
	s.pruneExpiredLocked(now)
	draft, ok := s.drafts[draftID]
	s.mu.Unlock()
	if !ok {
		return Reservation{}, ErrNotFound
	}

	if err := validateContact(contact); err != nil {
		logger.InfoContext(ctx, "contact step rejected", "error_kind", ErrorKind(err))
		return Reservation{}, err
	}

	reservation := Reservation{
		ID:        s.idGenerator(),
		Date:      draft.Details.Date,
		People:    draft.Details.People,
		Reason:    draft.Details.Reason,
		Type:      draft.Details.Type,
		Slot:      draft.Details.Slot,
		Name:      strings.TrimSpace(contact.Name),
		Email:     strings.TrimSpace(contact.Email),
		Phone:     strings.TrimSpace(contact.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.reservations.CreateIfAvailable(ctx, reservation, s.availabilityCheck(reservation))
	if err != nil {
		if errors.Is(err, ErrNoCapacity) {
			logger.InfoContext(ctx, "booking rejected for capacity", "date", booking.DateKey(reservation.Date, s.cfg.Location))
			return Reservation{}, ErrNoCapacity
		}
		logger.ErrorContext(ctx, "failed to persist booking", "error", err, "error_kind", ErrorKind(err))
		return Reservation{}, err
	}

	s.mu.Lock()
	delete(s.drafts, draftID)
	s.mu.Unlock()

	logger.InfoContext(ctx, "booking completed", "reservation_id", reservation.ID)
	return reservation, nil
}

// AbandonBooking discards a pending draft. Abandoning an unknown or already
// expired draft is not an error.
func (s *BookingService) AbandonBooking(ctx context.Context, draftID string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.drafts, draftID)
	s.mu.Unlock()
}

// availabilityCheck adapts the domain decision into the repository's
// transactional callback.
func (s *BookingService) availabilityCheck(candidate Reservation) func(existing []Reservation) error {
	return func(existing []Reservation) error {
		snapshot := make([]booking.Reservation, 0, len(existing))
		for _, r := range existing {
			snapshot = append(snapshot, booking.Reservation{
				Date:   r.Date,
				People: r.People,
				Type:   r.Type,
				Slot:   r.Slot,
			})
		}
		decision := booking.Check(snapshot, booking.Reservation{
			Date:   candidate.Date,
			People: candidate.People,
			Type:   candidate.Type,
			Slot:   candidate.Slot,
		}, s.cfg.Capacity, s.cfg.Location)
		if !decision.OK {
			return ErrNoCapacity
		}
		return nil
	}
}

func (s *BookingService) validateDetails(input DetailsInput, now time.Time) error {
	if input.Date.IsZero() {
		return fieldError("date", "date is required")
	}
	if booking.DateKey(input.Date, s.cfg.Location) < booking.DateKey(now, s.cfg.Location) {
		return fieldError("date", "date must be today or later")
	}

	if input.People < 1 || input.People > s.cfg.Capacity {
		return fieldError("people", fmt.Sprintf("party size must be between 1 and %d", s.cfg.Capacity))
	}

	if strings.TrimSpace(input.Reason) == "" {
		return fieldError("reason", "reason is required")
	}

	switch input.Type {
	case booking.TypeSpecificTime:
		if strings.TrimSpace(input.Slot) == "" {
			return fieldError("time", "time slot is required")
		}
		if !booking.ValidSlot(s.Slots(), input.Slot) {
			return fieldError("time", "time slot is not available")
		}
	case booking.TypeFullVenue:
		// No slot for full-venue bookings.
	default:
		return fieldError("type", "reservation type must be specific-time or full-venue")
	}

	return nil
}

func validateContact(contact ContactInput) error {
	if strings.TrimSpace(contact.Name) == "" {
		return fieldError("name", "name is required")
	}

	email := strings.TrimSpace(contact.Email)
	if email == "" {
		return fieldError("email", "email is required")
	}
	if !emailShape.MatchString(email) {
		return fieldError("email", "email is invalid")
	}

	if strings.TrimSpace(contact.Phone) == "" {
		return fieldError("phone", "phone is required")
	}

	return nil
}

// pruneExpiredLocked drops drafts whose expiry has passed. Caller holds mu.
func (s *BookingService) pruneExpiredLocked(now time.Time) {
	for id, draft := range s.drafts {
		if !draft.ExpiresAt.After(now) {
			delete(s.drafts, id)
		}
	}
}
