package shared

import (
	"time"

	"deskbook/internal/domain/reservation"
	"deskbook/internal/domain/resource"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on read-side query types (CQRS separation)
type ResourceSnapshot struct {
	ID               uuid.UUID
	Kind             resource.Kind
	Name             string
	Capacity         int
	RequiresApproval bool
}

type ReservationSnapshot struct {
	ID           uuid.UUID
	ResourceKind resource.Kind
	ResourceID   uuid.UUID
	UserID       uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	Status       reservation.Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ToDomain reconstructs the aggregate for lifecycle transitions.
func (s *ReservationSnapshot) ToDomain() (*reservation.Reservation, error) {
	slot, err := reservation.NewTimeSlot(s.StartTime, s.EndTime)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		s.ID,
		resource.NewRef(s.ResourceKind, s.ResourceID),
		s.UserID,
		slot,
		s.Status,
		s.CreatedAt,
		s.UpdatedAt,
	), nil
}
