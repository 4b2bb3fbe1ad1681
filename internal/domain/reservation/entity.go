package reservation

import (
	"errors"
	"time"

	"deskbook/internal/domain/resource"

	"github.com/google/uuid"
)

var (
	ErrStartInPast      = errors.New("start time cannot be in the past")
	ErrTooFarInAdvance  = errors.New("start time exceeds the advance booking limit")
	ErrNotPending       = errors.New("reservation is not awaiting approval")
	ErrAlreadyCompleted = errors.New("reservation has already completed")
	ErrTerminalState    = errors.New("reservation is in a terminal state")
)

type Reservation struct {
	id        uuid.UUID
	resource  resource.Ref
	userID    uuid.UUID
	slot      TimeSlot
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func ReconstructReservation(
	id uuid.UUID,
	res resource.Ref,
	userID uuid.UUID,
	slot TimeSlot,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:        id,
		resource:  res,
		userID:    userID,
		slot:      slot,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Approve confirms a reservation that was gated behind approval.
func (r *Reservation) Approve() error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusConfirmed
	return nil
}

// Cancel moves any non-terminal reservation to cancelled. Cancelling an
// already-cancelled reservation is a no-op success.
func (r *Reservation) Cancel(now time.Time) error {
	if r.status == StatusCancelled {
		return nil
	}
	if r.IsCompleted(now) {
		return ErrAlreadyCompleted
	}
	r.status = StatusCancelled
	return nil
}

// Reschedule replaces the interval. The caller must have re-run the conflict
// check for the new slot with this reservation's own id excluded.
func (r *Reservation) Reschedule(slot TimeSlot, now time.Time) error {
	if r.status == StatusCancelled {
		return ErrTerminalState
	}
	if r.IsCompleted(now) {
		return ErrAlreadyCompleted
	}
	if slot.Start().Before(now) {
		return ErrStartInPast
	}
	r.slot = slot
	return nil
}

// IsCompleted reports the derived terminal state: end time has passed.
func (r *Reservation) IsCompleted(now time.Time) bool {
	return r.status == StatusConfirmed && !r.slot.End().After(now)
}

func (r *Reservation) IsActive(now time.Time) bool {
	return r.status == StatusConfirmed && !r.slot.Start().After(now) && r.slot.End().After(now)
}

func (r *Reservation) IsUpcoming(now time.Time) bool {
	return r.status != StatusCancelled && r.slot.Start().After(now)
}

func (r *Reservation) IsPast(now time.Time) bool {
	return !r.slot.End().After(now)
}

func (r *Reservation) EffectiveStatus(now time.Time) Status {
	return EffectiveStatus(r.status, r.slot.End(), now)
}

func (r *Reservation) ID() uuid.UUID          { return r.id }
func (r *Reservation) Resource() resource.Ref { return r.resource }
func (r *Reservation) UserID() uuid.UUID      { return r.userID }
func (r *Reservation) Slot() TimeSlot         { return r.slot }
func (r *Reservation) Status() Status         { return r.status }
func (r *Reservation) CreatedAt() time.Time   { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time   { return r.updatedAt }
