//go:build unit || e2e

package builder

import (
	"time"

	domresource "deskbook/internal/domain/resource"
	"deskbook/internal/usecase/queries"
	"deskbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type ResourceBuilder struct {
	ID               uuid.UUID
	Kind             domresource.Kind
	Name             string
	Capacity         int
	RequiresApproval bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewResourceBuilder() *ResourceBuilder {
	now := time.Now().Truncate(time.Minute)
	return &ResourceBuilder{
		ID:               uuid.New(),
		Kind:             domresource.KindRoom,
		Name:             "Meeting Room Aurora",
		Capacity:         6,
		RequiresApproval: false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (r *ResourceBuilder) BuildDomain() (*domresource.Resource, error) {
	return domresource.NewResource(r.ID, r.Kind, r.Name, r.Capacity, r.RequiresApproval)
}

func (r *ResourceBuilder) BuildViewQuery() *queries.ResourceView {
	return &queries.ResourceView{
		ID:               r.ID,
		Kind:             r.Kind.String(),
		Name:             r.Name,
		Capacity:         r.Capacity,
		RequiresApproval: r.RequiresApproval,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r *ResourceBuilder) BuildSnapshot() *shared.ResourceSnapshot {
	return &shared.ResourceSnapshot{
		ID:               r.ID,
		Kind:             r.Kind,
		Name:             r.Name,
		Capacity:         r.Capacity,
		RequiresApproval: r.RequiresApproval,
	}
}

// Fluent builder methods
func (r *ResourceBuilder) AsDesk() *ResourceBuilder {
	r.Kind = domresource.KindDesk
	r.Name = "Desk A-01"
	r.Capacity = 1
	r.RequiresApproval = false
	return r
}

func (r *ResourceBuilder) WithRequiresApproval(v bool) *ResourceBuilder {
	r.RequiresApproval = v
	return r
}

func (r *ResourceBuilder) WithName(name string) *ResourceBuilder {
	r.Name = name
	return r
}

func (r *ResourceBuilder) WithCapacity(capacity int) *ResourceBuilder {
	r.Capacity = capacity
	return r
}
