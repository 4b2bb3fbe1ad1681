package resource

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidKind         = errors.New("invalid resource kind")
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrInvalidCapacity     = errors.New("capacity must be positive")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
)

const (
	MaxResourceNameLength = 255
)

type Kind string

const (
	KindDesk Kind = "desk"
	KindRoom Kind = "room"
)

func NewKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindDesk:
		return KindDesk, nil
	case KindRoom:
		return KindRoom, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindDesk, KindRoom:
		return true
	default:
		return false
	}
}

// Ref identifies a bookable resource as a tagged variant: kind plus one
// opaque identifier, replacing the source schema's two nullable foreign keys.
type Ref struct {
	Kind Kind
	ID   uuid.UUID
}

func NewRef(kind Kind, id uuid.UUID) Ref {
	return Ref{Kind: kind, ID: id}
}

type Resource struct {
	id               uuid.UUID
	kind             Kind
	name             string
	capacity         int
	requiresApproval bool
}

func NewResource(id uuid.UUID, kind Kind, name string, capacity int, requiresApproval bool) (*Resource, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	if err := validateResourceName(name); err != nil {
		return nil, err
	}

	// Desks are single occupancy and never gated behind approval.
	if kind == KindDesk {
		capacity = 1
		requiresApproval = false
	}

	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Resource{
		id:               id,
		kind:             kind,
		name:             strings.TrimSpace(name),
		capacity:         capacity,
		requiresApproval: requiresApproval,
	}, nil
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func (r *Resource) ID() uuid.UUID          { return r.id }
func (r *Resource) Kind() Kind             { return r.kind }
func (r *Resource) Name() string           { return r.name }
func (r *Resource) Capacity() int          { return r.capacity }
func (r *Resource) RequiresApproval() bool { return r.requiresApproval }

func (r *Resource) Ref() Ref {
	return Ref{Kind: r.kind, ID: r.id}
}
