package response

import (
	"time"

	"deskbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ResourceResponse struct {
	ID               uuid.UUID `json:"id"`
	Kind             string    `json:"kind"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	RequiresApproval bool      `json:"requires_approval"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type AvailabilityResponse struct {
	ResourceKind   string   `json:"resource_kind"`
	ResourceID     string   `json:"resource_id"`
	ResourceName   string   `json:"resource_name"`
	Date           string   `json:"date"`
	AllSlots       []string `json:"all_slots"`
	BookedSlots    []string `json:"booked_slots"`
	AvailableSlots []string `json:"available_slots"`
}

func FromResourceView(rm *queries.ResourceView) *ResourceResponse {
	var resp ResourceResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromAvailabilityView(rm *queries.AvailabilityView) *AvailabilityResponse {
	var resp AvailabilityResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
