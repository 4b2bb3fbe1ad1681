//go:build unit || e2e

package builder

import (
	"time"

	domres "deskbook/internal/domain/reservation"
	"deskbook/internal/domain/resource"
	reqdto "deskbook/internal/handler/dto/request"
	"deskbook/internal/usecase/commands"
	"deskbook/internal/usecase/queries"
	"deskbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID           uuid.UUID
	ResourceKind resource.Kind
	ResourceID   uuid.UUID
	ResourceName string
	UserID       uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	Status       domres.Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Now().Truncate(time.Minute)
	start := now.Add(24 * time.Hour)
	return &ReservationBuilder{
		ID:           uuid.New(),
		ResourceKind: resource.KindRoom,
		ResourceID:   uuid.New(),
		ResourceName: "Meeting Room Aurora",
		UserID:       uuid.New(),
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		Status:       domres.StatusConfirmed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *ReservationBuilder) BuildDomain() (*domres.Reservation, error) {
	slot, err := domres.NewTimeSlot(r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}
	return domres.ReconstructReservation(
		r.ID,
		resource.NewRef(r.ResourceKind, r.ResourceID),
		r.UserID,
		slot,
		r.Status,
		r.CreatedAt,
		r.UpdatedAt,
	), nil
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		ResourceKind: r.ResourceKind.String(),
		ResourceID:   r.ResourceID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
	}
}

func (r *ReservationBuilder) BuildCreateInput() commands.CreateReservationInput {
	return commands.CreateReservationInput{
		Resource:  resource.NewRef(r.ResourceKind, r.ResourceID),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

func (r *ReservationBuilder) BuildViewQuery() *queries.ReservationView {
	return &queries.ReservationView{
		ID:           r.ID,
		ResourceKind: r.ResourceKind.String(),
		ResourceID:   r.ResourceID,
		ResourceName: r.ResourceName,
		UserID:       r.UserID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Status:       string(r.Status),
		IsUpcoming:   true,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:           r.ID,
		ResourceKind: r.ResourceKind.String(),
		ResourceID:   r.ResourceID,
		ResourceName: r.ResourceName,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
	}
}

func (r *ReservationBuilder) BuildSnapshot() *shared.ReservationSnapshot {
	return &shared.ReservationSnapshot{
		ID:           r.ID,
		ResourceKind: r.ResourceKind,
		ResourceID:   r.ResourceID,
		UserID:       r.UserID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Fluent builder methods
func (r *ReservationBuilder) WithID(id uuid.UUID) *ReservationBuilder {
	r.ID = id
	return r
}

func (r *ReservationBuilder) WithResource(kind resource.Kind, id uuid.UUID) *ReservationBuilder {
	r.ResourceKind = kind
	r.ResourceID = id
	return r
}

func (r *ReservationBuilder) WithUserID(userID uuid.UUID) *ReservationBuilder {
	r.UserID = userID
	return r
}

func (r *ReservationBuilder) WithInterval(start, end time.Time) *ReservationBuilder {
	r.StartTime = start
	r.EndTime = end
	return r
}

func (r *ReservationBuilder) WithStatus(status domres.Status) *ReservationBuilder {
	r.Status = status
	return r
}

func (r *ReservationBuilder) AsPending() *ReservationBuilder {
	r.Status = domres.StatusPending
	return r
}

func (r *ReservationBuilder) AsCancelled() *ReservationBuilder {
	r.Status = domres.StatusCancelled
	return r
}
