package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/restaurant-api/internal/booking"
)

// stubReservationRepository keeps reservations in memory and mirrors the
// transactional contract: the decision function sees the candidate's
// same-date records before anything is written.
type stubReservationRepository struct {
	reservations []Reservation
	location     *time.Location

	createErr error
	listErr   error
}

func newStubReservationRepository() *stubReservationRepository {
	return &stubReservationRepository{location: time.UTC}
}

func (r *stubReservationRepository) sameDate(date time.Time, excludeID string) []Reservation {
	key := booking.DateKey(date, r.location)
	matches := make([]Reservation, 0, len(r.reservations))
	for _, existing := range r.reservations {
		if existing.ID == excludeID {
			continue
		}
		if booking.DateKey(existing.Date, r.location) == key {
			matches = append(matches, existing)
		}
	}
	return matches
}

func (r *stubReservationRepository) CreateIfAvailable(_ context.Context, reservation Reservation, decide func(existing []Reservation) error) error {
	if r.createErr != nil {
		return r.createErr
	}
	if decide != nil {
		if err := decide(r.sameDate(reservation.Date, "")); err != nil {
			return err
		}
	}
	r.reservations = append(r.reservations, reservation)
	return nil
}

func (r *stubReservationRepository) UpdateIfAvailable(_ context.Context, reservation Reservation, decide func(existing []Reservation) error) error {
	for i, existing := range r.reservations {
		if existing.ID == reservation.ID {
			if decide != nil {
				if err := decide(r.sameDate(reservation.Date, reservation.ID)); err != nil {
					return err
				}
			}
			r.reservations[i] = reservation
			return nil
		}
	}
	return ErrNotFound
}

func (r *stubReservationRepository) GetReservation(_ context.Context, id string) (Reservation, error) {
	for _, existing := range r.reservations {
		if existing.ID == id {
			return existing, nil
		}
	}
	return Reservation{}, ErrNotFound
}

func (r *stubReservationRepository) ListReservations(_ context.Context, filter ReservationRepositoryFilter) ([]Reservation, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	results := make([]Reservation, 0, len(r.reservations))
	for _, existing := range r.reservations {
		if filter.DateKey != "" && booking.DateKey(existing.Date, r.location) != filter.DateKey {
			continue
		}
		if filter.From != nil && existing.Date.Before(*filter.From) {
			continue
		}
		if filter.Until != nil && existing.Date.After(*filter.Until) {
			continue
		}
		results = append(results, existing)
	}
	return results, nil
}

func (r *stubReservationRepository) DeleteReservation(_ context.Context, id string) error {
	for i, existing := range r.reservations {
		if existing.ID == id {
			r.reservations = append(r.reservations[:i], r.reservations[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func sequentialIDs(prefix string) func() string {
	count := 0
	return func() string {
		count++
		return fmt.Sprintf("%s-%d", prefix, count)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.FieldErrors[field]; !ok {
		t.Fatalf("expected an error on field %q, got %v", field, vErr.FieldErrors)
	}
}

var testNow = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

func newBookingService(repo *stubReservationRepository) *BookingService {
	return NewBookingService(repo, BookingConfig{Location: time.UTC}, sequentialIDs("id"), fixedClock(testNow), nil)
}

func validDetails() DetailsInput {
	return DetailsInput{
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		People: 4,
		Reason: "birthday dinner",
		Type:   booking.TypeSpecificTime,
		Slot:   "12:00-13:00",
	}
}

func validContact() ContactInput {
	return ContactInput{Name: "Dana Whitfield", Email: "dana@example.com", Phone: "+15550100"}
}

func TestStartBookingValidationOrder(t *testing.T) {
	service := newBookingService(newStubReservationRepository())

	testCases := []struct {
		name   string
		mutate func(*DetailsInput)
		field  string
	}{
		{
			name:   "missing date reported first",
			mutate: func(d *DetailsInput) { d.Date = time.Time{}; d.People = 0; d.Reason = "" },
			field:  "date",
		},
		{
			name:   "past date rejected",
			mutate: func(d *DetailsInput) { d.Date = testNow.AddDate(0, 0, -1) },
			field:  "date",
		},
		{
			name:   "zero party size",
			mutate: func(d *DetailsInput) { d.People = 0 },
			field:  "people",
		},
		{
			name:   "party above capacity fails before availability",
			mutate: func(d *DetailsInput) { d.People = booking.DefaultCapacity + 1 },
			field:  "people",
		},
		{
			name:   "blank reason",
			mutate: func(d *DetailsInput) { d.Reason = "   " },
			field:  "reason",
		},
		{
			name:   "missing slot for specific time",
			mutate: func(d *DetailsInput) { d.Slot = "" },
			field:  "time",
		},
		{
			name:   "slot outside operating hours",
			mutate: func(d *DetailsInput) { d.Slot = "22:00-23:00" },
			field:  "time",
		},
		{
			name:   "unknown reservation type",
			mutate: func(d *DetailsInput) { d.Type = "walk-in" },
			field:  "type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			details := validDetails()
			tc.mutate(&details)

			_, err := service.StartBooking(context.Background(), details)
			requireFieldError(t, err, tc.field)
		})
	}
}

func TestStartBookingSameDayAccepted(t *testing.T) {
	service := newBookingService(newStubReservationRepository())

	details := validDetails()
	details.Date = testNow

	if _, err := service.StartBooking(context.Background(), details); err != nil {
		t.Fatalf("expected same-day booking to pass validation, got %v", err)
	}
}

func TestStartBookingFullVenueClearsSlot(t *testing.T) {
	service := newBookingService(newStubReservationRepository())

	details := validDetails()
	details.Type = booking.TypeFullVenue
	details.Slot = "12:00-13:00"

	draft, err := service.StartBooking(context.Background(), details)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Details.Slot != "" {
		t.Fatalf("expected slot cleared for full-venue draft, got %q", draft.Details.Slot)
	}
	if len(draft.Slots) == 0 {
		t.Fatal("expected draft to carry the bookable intervals")
	}
}

func TestGetDraftAfterExpiry(t *testing.T) {
	repo := newStubReservationRepository()
	clock := testNow
	service := NewBookingService(repo, BookingConfig{Location: time.UTC, DraftTTL: 30 * time.Minute},
		sequentialIDs("id"), func() time.Time { return clock }, nil)

	draft, err := service.StartBooking(context.Background(), validDetails())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.GetDraft(context.Background(), draft.ID); err != nil {
		t.Fatalf("expected fresh draft to resolve, got %v", err)
	}

	clock = clock.Add(31 * time.Minute)
	if _, err := service.GetDraft(context.Background(), draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired draft, got %v", err)
	}
}

func TestCompleteBookingContactValidation(t *testing.T) {
	service := newBookingService(newStubReservationRepository())

	draft, err := service.StartBooking(context.Background(), validDetails())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testCases := []struct {
		name   string
		mutate func(*ContactInput)
		field  string
	}{
		{name: "missing name", mutate: func(c *ContactInput) { c.Name = "" }, field: "name"},
		{name: "missing email", mutate: func(c *ContactInput) { c.Email = "" }, field: "email"},
		{name: "malformed email", mutate: func(c *ContactInput) { c.Email = "not-an-address" }, field: "email"},
		{name: "missing phone", mutate: func(c *ContactInput) { c.Phone = "  " }, field: "phone"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			contact := validContact()
			tc.mutate(&contact)

			_, err := service.CompleteBooking(context.Background(), draft.ID, contact)
			requireFieldError(t, err, tc.field)
		})
	}

	// The draft survives every failed attempt.
	if _, err := service.GetDraft(context.Background(), draft.ID); err != nil {
		t.Fatalf("expected draft to survive validation failures, got %v", err)
	}
}

func TestCompleteBookingUnknownDraft(t *testing.T) {
	service := newBookingService(newStubReservationRepository())

	if _, err := service.CompleteBooking(context.Background(), "missing", validContact()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompleteBookingPersistsReservation(t *testing.T) {
	repo := newStubReservationRepository()
	service := newBookingService(repo)

	draft, err := service.StartBooking(context.Background(), validDetails())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reservation, err := service.CompleteBooking(context.Background(), draft.ID, validContact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reservation.ID == "" {
		t.Fatal("expected reservation to receive an ID")
	}
	if reservation.Name != "Dana Whitfield" || reservation.Email != "dana@example.com" {
		t.Fatalf("unexpected contact merge: %+v", reservation)
	}
	if len(repo.reservations) != 1 {
		t.Fatalf("expected one persisted reservation, got %d", len(repo.reservations))
	}

	// The draft is discarded on success.
	if _, err := service.GetDraft(context.Background(), draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected draft gone after completion, got %v", err)
	}
}

func TestCompleteBookingCapacityRejectionKeepsDraft(t *testing.T) {
	repo := newStubReservationRepository()
	repo.reservations = []Reservation{{
		ID:     "existing",
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		People: 20,
		Type:   booking.TypeSpecificTime,
		Slot:   "12:00-13:00",
	}}
	service := newBookingService(repo)

	details := validDetails()
	details.People = 16

	draft, err := service.StartBooking(context.Background(), details)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.CompleteBooking(context.Background(), draft.ID, validContact()); !errors.Is(err, ErrNoCapacity) {
		t.Fatalf("expected ErrNoCapacity for 20+16 over 35, got %v", err)
	}

	if len(repo.reservations) != 1 {
		t.Fatalf("expected rejection to persist nothing, got %d records", len(repo.reservations))
	}
	if _, err := service.GetDraft(context.Background(), draft.ID); err != nil {
		t.Fatalf("expected draft kept after capacity rejection, got %v", err)
	}

	// 20+15 exactly fills the venue and is accepted.
	details.People = 15
	draft, err = service.StartBooking(context.Background(), details)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.CompleteBooking(context.Background(), draft.ID, validContact()); err != nil {
		t.Fatalf("expected exactly-full booking to succeed, got %v", err)
	}
}

func TestCompleteBookingFullVenueExclusivity(t *testing.T) {
	repo := newStubReservationRepository()
	repo.reservations = []Reservation{{
		ID:     "buyout",
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		People: 10,
		Type:   booking.TypeFullVenue,
	}}
	service := newBookingService(repo)

	draft, err := service.StartBooking(context.Background(), validDetails())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.CompleteBooking(context.Background(), draft.ID, validContact()); !errors.Is(err, ErrNoCapacity) {
		t.Fatalf("expected full-venue buyout to block the date, got %v", err)
	}

	// The next day is unaffected.
	details := validDetails()
	details.Date = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	draft, err = service.StartBooking(context.Background(), details)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.CompleteBooking(context.Background(), draft.ID, validContact()); err != nil {
		t.Fatalf("expected other dates to stay bookable, got %v", err)
	}
}

func TestAbandonBookingIsIdempotent(t *testing.T) {
	service := newBookingService(newStubReservationRepository())

	draft, err := service.StartBooking(context.Background(), validDetails())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	service.AbandonBooking(context.Background(), draft.ID)
	service.AbandonBooking(context.Background(), draft.ID)
	service.AbandonBooking(context.Background(), "never-existed")

	if _, err := service.GetDraft(context.Background(), draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected abandoned draft gone, got %v", err)
	}
}

func TestSlotsMatchConfiguredHours(t *testing.T) {
	service := newBookingService(newStubReservationRepository())

	slots := service.Slots()
	if len(slots) != 27 {
		t.Fatalf("expected 27 hourly slots at 30 minute steps, got %d", len(slots))
	}
	if slots[0].Value != "07:00-08:00" || slots[len(slots)-1].Value != "20:00-21:00" {
		t.Fatalf("unexpected boundary slots: %s .. %s", slots[0].Value, slots[len(slots)-1].Value)
	}
}
