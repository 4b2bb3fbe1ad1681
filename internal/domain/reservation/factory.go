package reservation

import (
	"time"

	"deskbook/internal/domain/resource"

	"deskbook/internal/pkg/clock"

	"github.com/google/uuid"
)

// BookingPolicy holds the booking-window limits, passed in at construction
// rather than read from ambient settings.
type BookingPolicy struct {
	MaxAdvanceDays int
}

type Factory struct {
	clock  clock.Clock
	policy BookingPolicy
}

func NewFactory(clock clock.Clock, policy BookingPolicy) *Factory {
	return &Factory{
		clock:  clock,
		policy: policy,
	}
}

// CreateReservation instantiates a new reservation for the given resource.
// A resource that requires approval starts pending; otherwise confirmed.
// Conflict checking is the caller's responsibility (pre-check plus the
// store's commit-time constraint).
func (f *Factory) CreateReservation(
	res *resource.Resource,
	userID uuid.UUID,
	slot TimeSlot,
) (*Reservation, error) {
	now := f.clock.Now()

	if slot.Start().Before(now) {
		return nil, ErrStartInPast
	}

	if f.policy.MaxAdvanceDays > 0 {
		limit := now.Add(time.Duration(f.policy.MaxAdvanceDays) * 24 * time.Hour)
		if slot.Start().After(limit) {
			return nil, ErrTooFarInAdvance
		}
	}

	status := StatusConfirmed
	if res.RequiresApproval() {
		status = StatusPending
	}

	return &Reservation{
		id:       uuid.New(),
		resource: res.Ref(),
		userID:   userID,
		slot:     slot,
		status:   status,
	}, nil
}
