package repository

import (
	"context"
	"errors"

	"deskbook/internal/domain/reservation"
	"deskbook/internal/infra"
	"deskbook/internal/infra/db"
	"deskbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeExclusionViolation = "23P01"
	pgErrCodeForeignKeyViolated = "23503"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

const insertReservationSQL = `
INSERT INTO reservations (id, resource_kind, resource_id, user_id, start_time, end_time, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
RETURNING id
`

// Insert persists a new reservation. The exclusion constraint on the
// reservations table rejects overlapping non-terminal intervals on the same
// resource, so a concurrent double-book surfaces here as a conflict.
func (r *ReservationRepository) Insert(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertReservationSQL,
		pgconv.UUIDToPgtype(res.ID()),
		res.Resource().Kind.String(),
		pgconv.UUIDToPgtype(res.Resource().ID),
		pgconv.UUIDToPgtype(res.UserID()),
		pgconv.TimeToPgtype(res.Slot().Start()),
		pgconv.TimeToPgtype(res.Slot().End()),
		string(res.Status()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, classifyWriteErr("failed to insert reservation "+res.Slot().ToTstzrange(), err)
	}

	return id, nil
}

const updateReservationIntervalSQL = `
UPDATE reservations
SET start_time = $2, end_time = $3, updated_at = now()
WHERE id = $1 AND status IN ('pending', 'confirmed')
`

// UpdateInterval moves a still-active reservation. Zero rows affected means
// a concurrent transition retired the row after the caller's snapshot read.
func (r *ReservationRepository) UpdateInterval(ctx context.Context, dbtx db.DBTX, id uuid.UUID, slot reservation.TimeSlot) error {
	tag, err := dbtx.Exec(ctx, updateReservationIntervalSQL,
		pgconv.UUIDToPgtype(id),
		pgconv.TimeToPgtype(slot.Start()),
		pgconv.TimeToPgtype(slot.End()),
	)
	if err != nil {
		return classifyWriteErr("failed to update reservation interval to "+slot.ToTstzrange(), err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation is not active", nil, infra.KindPreconditionFailed)
	}

	return nil
}

const updateReservationStatusSQL = `
UPDATE reservations
SET status = $2, updated_at = now()
WHERE id = $1 AND status = ANY($3)
`

// UpdateStatus flips the status only when the current value is one of from,
// so racing transitions cannot overwrite each other; the loser sees zero
// rows affected.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, to reservation.Status, from ...reservation.Status) error {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	tag, err := dbtx.Exec(ctx, updateReservationStatusSQL,
		pgconv.UUIDToPgtype(id),
		string(to),
		allowed,
	)
	if err != nil {
		return classifyWriteErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation is not in an expected status", nil, infra.KindPreconditionFailed)
	}

	return nil
}

func classifyWriteErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeExclusionViolation, pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindConflict)
		case pgErrCodeForeignKeyViolated:
			return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
		}
	}
	return infra.WrapRepoErr(msg, err)
}
