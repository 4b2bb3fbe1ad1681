package commands

import (
	"time"

	"deskbook/internal/domain/resource"

	"github.com/google/uuid"
)

// Actor is the authenticated caller. Managers may act on reservations they
// do not own (the approval gate, cancelling on behalf of a user).
type Actor struct {
	ID        uuid.UUID
	IsManager bool
}

func (a Actor) CanActOn(ownerID uuid.UUID) bool {
	return a.IsManager || a.ID == ownerID
}

type CreateReservationInput struct {
	Resource  resource.Ref
	StartTime time.Time
	EndTime   time.Time
}

// RescheduleInput carries the time change; a nil field keeps the stored value.
type RescheduleInput struct {
	StartTime *time.Time
	EndTime   *time.Time
}
