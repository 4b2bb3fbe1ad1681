package reservation

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"

	// StatusCompleted is derived from (interval, now) on read and never stored,
	// so no background sweep sits on the correctness-critical path.
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further lifecycle transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// EffectiveStatus maps a stored status to the caller-visible one: a confirmed
// reservation whose end has passed reads as completed.
func EffectiveStatus(stored Status, end time.Time, now time.Time) Status {
	if stored == StatusConfirmed && !end.After(now) {
		return StatusCompleted
	}
	return stored
}
