package booking

import "time"

// DefaultCapacity is the maximum total party size permitted across all
// specific-time reservations sharing one date and slot. A full-venue
// reservation consumes the entire capacity for its date.
const DefaultCapacity = 35

// ReservationType distinguishes a booking for a single time slot from one
// that occupies the whole venue for a date.
type ReservationType string

const (
	TypeSpecificTime ReservationType = "specific-time"
	TypeFullVenue    ReservationType = "full-venue"
)

// Reservation is the snapshot view of a booking that the availability
// decision operates on. Slot is set only for specific-time reservations.
type Reservation struct {
	Date   time.Time
	People int
	Type   ReservationType
	Slot   string
}

// Decision is the outcome of an availability check. Reason is set only on
// rejection and is safe to surface to users.
type Decision struct {
	OK     bool
	Reason string
}

// RejectionReason is the fixed message returned for every capacity rejection.
// There is no partial-availability or waitlist concept.
const RejectionReason = "no capacity remains for the selected date; please contact us directly to discuss alternatives"

// DateKey returns the calendar-date grouping key for a reservation instant,
// ignoring its time-of-day.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}

// Check decides whether the candidate reservation fits alongside the existing
// ones. Pure function over the snapshot passed in; callers are responsible
// for evaluating it against a consistent view of the store.
//
// Rules, evaluated against records sharing the candidate's date key:
//  1. Any existing full-venue reservation blocks the date entirely.
//  2. A full-venue candidate is rejected if the date has any reservation at all.
//  3. A specific-time candidate is rejected when the summed party sizes for
//     its slot, counting each full-venue record as the whole capacity, plus
//     the candidate's own party would exceed capacity.
func Check(existing []Reservation, candidate Reservation, capacity int, loc *time.Location) Decision {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	key := DateKey(candidate.Date, loc)

	for _, r := range existing {
		if r.Type == TypeFullVenue && DateKey(r.Date, loc) == key {
			return Decision{Reason: RejectionReason}
		}
	}

	if candidate.Type == TypeFullVenue {
		for _, r := range existing {
			if DateKey(r.Date, loc) == key {
				return Decision{Reason: RejectionReason}
			}
		}
		return Decision{OK: true}
	}

	seated := 0
	for _, r := range existing {
		if DateKey(r.Date, loc) != key {
			continue
		}
		// Full-venue records cannot reach this point after the scan above;
		// counting them anyway keeps the sum correct if a caller ever feeds
		// an inconsistent snapshot.
		if r.Type == TypeFullVenue {
			seated += capacity
			continue
		}
		if r.Slot == candidate.Slot {
			seated += r.People
		}
	}

	if seated+candidate.People > capacity {
		return Decision{Reason: RejectionReason}
	}
	return Decision{OK: true}
}
