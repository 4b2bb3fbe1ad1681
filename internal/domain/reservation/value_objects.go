package reservation

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeSlot = errors.New("start time must be before end time")

// TimeSlot is a half-open interval [start, end): the start instant is
// included, the end instant is not, so back-to-back reservations never touch.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}

	return TimeSlot{
		start: start,
		end:   end,
	}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

// Overlaps applies the single unified test for half-open intervals:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1. This subsumes the
// "starts during", "ends during" and "fully encloses" cases, and a slot
// ending exactly where another starts does not overlap.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

// ToTstzrange renders the slot as the canonical half-open range literal, the
// same shape the store's exclusion constraint indexes.
func (ts TimeSlot) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

// HasConflict reports whether the candidate slot overlaps any of the given
// slots. Callers are responsible for filtering to non-terminal reservations
// on the same resource (and excluding the reservation being rescheduled).
func HasConflict(candidate TimeSlot, existing []TimeSlot) bool {
	for _, slot := range existing {
		if candidate.Overlaps(slot) {
			return true
		}
	}
	return false
}
