package request

import (
	"errors"
	"time"

	"deskbook/internal/domain/resource"
	"deskbook/internal/usecase/commands"

	"github.com/google/uuid"
)

var errNoFieldsToUpdate = errors.New("at least one of start_time or end_time is required")

type CreateReservationRequest struct {
	ResourceKind string    `json:"resource_kind" binding:"required"`
	ResourceID   uuid.UUID `json:"resource_id" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
}

func (r CreateReservationRequest) ToInput() (commands.CreateReservationInput, error) {
	kind, err := resource.NewKind(r.ResourceKind)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}

	return commands.CreateReservationInput{
		Resource:  resource.NewRef(kind, r.ResourceID),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}, nil
}

type RescheduleReservationRequest struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

func (r RescheduleReservationRequest) ToInput() (commands.RescheduleInput, error) {
	if r.StartTime == nil && r.EndTime == nil {
		return commands.RescheduleInput{}, errNoFieldsToUpdate
	}

	return commands.RescheduleInput{
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}, nil
}
