package booking

import (
	"fmt"
	"time"
)

// Default operating window for the venue. Bookable slots are one hour long and
// start on a half-hour boundary.
const (
	DefaultOpen     = 7 * time.Hour
	DefaultClose    = 21 * time.Hour
	DefaultSlotSize = time.Hour
	DefaultStep     = 30 * time.Minute
)

// Interval is a bookable time window within a single day. Start and End are
// offsets from midnight. Value is the machine form exchanged with clients and
// stored on reservations; Label is the human-readable 12-hour form.
type Interval struct {
	Start time.Duration
	End   time.Duration
	Value string
	Label string
}

// Intervals produces the ordered sequence of bookable windows of length slot
// whose start is a multiple of step offset from open and whose end does not
// exceed close. An empty or inverted window yields nil.
func Intervals(open, close, slot, step time.Duration) []Interval {
	if slot <= 0 || step <= 0 {
		return nil
	}

	var intervals []Interval
	for start := open; start+slot <= close; start += step {
		end := start + slot
		intervals = append(intervals, Interval{
			Start: start,
			End:   end,
			Value: fmt.Sprintf("%s-%s", clockValue(start), clockValue(end)),
			Label: fmt.Sprintf("%s - %s", clockLabel(start), clockLabel(end)),
		})
	}
	return intervals
}

// DefaultIntervals returns the slot sequence for the configured standard
// operating hours.
func DefaultIntervals() []Interval {
	return Intervals(DefaultOpen, DefaultClose, DefaultSlotSize, DefaultStep)
}

// ValidSlot reports whether value names one of the provided intervals.
func ValidSlot(intervals []Interval, value string) bool {
	for _, interval := range intervals {
		if interval.Value == value {
			return true
		}
	}
	return false
}

func clockValue(offset time.Duration) string {
	hours := int(offset / time.Hour)
	minutes := int(offset/time.Minute) % 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

func clockLabel(offset time.Duration) string {
	hours := int(offset/time.Hour) % 24
	minutes := int(offset/time.Minute) % 60

	meridiem := "AM"
	if hours >= 12 {
		meridiem = "PM"
	}

	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes, meridiem)
}
