package shared

import (
	"context"

	"deskbook/internal/domain/reservation"
	"deskbook/internal/domain/resource"
	"deskbook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ResourceByRef(ctx context.Context, ref resource.Ref) (*ResourceSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	// ActiveReservations lists the non-terminal reservations on a resource,
	// ordered by start time. Fast-path input for the conflict pre-check.
	ActiveReservations(ctx context.Context, ref resource.Ref) ([]*ReservationSnapshot, error)
}

// ReservationRepository is the write side of the reservation ledger. All
// methods participate in the per-resource atomicity guarantee: the store's
// exclusion constraint is the authoritative conflict arbiter.
type ReservationRepository interface {
	Insert(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	// UpdateInterval only touches active rows; UpdateStatus only transitions
	// out of the given from statuses. Both surface a lost race as a
	// precondition-failed error instead of overwriting the newer state.
	UpdateInterval(ctx context.Context, dbtx db.DBTX, id uuid.UUID, slot reservation.TimeSlot) error
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, to reservation.Status, from ...reservation.Status) error
}
