package readstore

import (
	"context"
	"time"

	"deskbook/internal/domain/reservation"
	"deskbook/internal/domain/resource"
	"deskbook/internal/domain/schedule"
	"deskbook/internal/infra"
	"deskbook/internal/infra/db"
	"deskbook/internal/pkg/pgconv"
	"deskbook/internal/usecase/queries"
	"deskbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationReadStore struct {
	dbtx db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{dbtx: dbtx}
}

const findReservationByIDSQL = `
SELECT r.id, r.resource_kind, r.resource_id, res.name, r.user_id,
       r.start_time, r.end_time, r.status, r.created_at, r.updated_at
FROM reservations r
JOIN resources res ON res.id = r.resource_id
WHERE r.id = $1
`

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var (
		rID, resID, userID   pgtype.UUID
		kind, name, status   string
		start, end, cAt, uAt pgtype.Timestamptz
	)
	err := s.dbtx.QueryRow(ctx, findReservationByIDSQL, pgconv.UUIDToPgtype(id)).
		Scan(&rID, &kind, &resID, &name, &userID, &start, &end, &status, &cAt, &uAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	return &queries.ReservationView{
		ID:           pgconv.UUIDFromPgtype(rID),
		ResourceKind: kind,
		ResourceID:   pgconv.UUIDFromPgtype(resID),
		ResourceName: name,
		UserID:       pgconv.UUIDFromPgtype(userID),
		StartTime:    pgconv.TimeFromPgtype(start),
		EndTime:      pgconv.TimeFromPgtype(end),
		Status:       status,
		CreatedAt:    pgconv.TimeFromPgtype(cAt),
		UpdatedAt:    pgconv.TimeFromPgtype(uAt),
	}, nil
}

const findReservationsByUserSQL = `
SELECT r.id, r.resource_kind, r.resource_id, res.name,
       r.start_time, r.end_time, r.status, r.created_at
FROM reservations r
JOIN resources res ON res.id = r.resource_id
WHERE r.user_id = $1
  AND ($2::timestamptz IS NULL OR r.start_time > $2)
ORDER BY r.start_time DESC
`

func (s *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, startingAfter *time.Time) ([]*queries.ReservationListItem, error) {
	var after pgtype.Timestamptz
	if startingAfter != nil {
		after = pgconv.TimeToPgtype(*startingAfter)
	}

	rows, err := s.dbtx.Query(ctx, findReservationsByUserSQL, pgconv.UUIDToPgtype(userID), after)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	items := make([]*queries.ReservationListItem, 0)
	for rows.Next() {
		var (
			rID, resID      pgtype.UUID
			kind, name      string
			status          string
			start, end, cAt pgtype.Timestamptz
		)
		if err := rows.Scan(&rID, &kind, &resID, &name, &start, &end, &status, &cAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		items = append(items, &queries.ReservationListItem{
			ID:           pgconv.UUIDFromPgtype(rID),
			ResourceKind: kind,
			ResourceID:   pgconv.UUIDFromPgtype(resID),
			ResourceName: name,
			StartTime:    pgconv.TimeFromPgtype(start),
			EndTime:      pgconv.TimeFromPgtype(end),
			Status:       status,
			CreatedAt:    pgconv.TimeFromPgtype(cAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}

	return items, nil
}

const findOccupancyForDaySQL = `
SELECT start_time, end_time
FROM reservations
WHERE resource_kind = $1 AND resource_id = $2
  AND status IN ('pending', 'confirmed')
  AND start_time < $4 AND end_time > $3
ORDER BY start_time
`

func (s *ReservationReadStore) FindOccupancyForDay(ctx context.Context, ref resource.Ref, dayStart, dayEnd time.Time) ([]schedule.Interval, error) {
	rows, err := s.dbtx.Query(ctx, findOccupancyForDaySQL,
		ref.Kind.String(),
		pgconv.UUIDToPgtype(ref.ID),
		pgconv.TimeToPgtype(dayStart),
		pgconv.TimeToPgtype(dayEnd),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load occupancy", err)
	}
	defer rows.Close()

	intervals := make([]schedule.Interval, 0)
	for rows.Next() {
		var start, end pgtype.Timestamptz
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupancy row", err)
		}
		intervals = append(intervals, schedule.Interval{
			Start: pgconv.TimeFromPgtype(start),
			End:   pgconv.TimeFromPgtype(end),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to load occupancy", err)
	}

	return intervals, nil
}

const findReservationSnapshotSQL = `
SELECT id, resource_kind, resource_id, user_id, start_time, end_time, status, created_at, updated_at
FROM reservations
WHERE id = $1
`

// FindSnapshotByID feeds the command side; unlike FindByID it carries domain
// types so the aggregate can be reconstructed for lifecycle transitions.
func (s *ReservationReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	row := s.dbtx.QueryRow(ctx, findReservationSnapshotSQL, pgconv.UUIDToPgtype(id))
	snapshot, err := scanReservationSnapshot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return snapshot, nil
}

const findActiveByResourceSQL = `
SELECT id, resource_kind, resource_id, user_id, start_time, end_time, status, created_at, updated_at
FROM reservations
WHERE resource_kind = $1 AND resource_id = $2
  AND status IN ('pending', 'confirmed')
ORDER BY start_time
`

func (s *ReservationReadStore) FindActiveByResource(ctx context.Context, ref resource.Ref) ([]*shared.ReservationSnapshot, error) {
	rows, err := s.dbtx.Query(ctx, findActiveByResourceSQL, ref.Kind.String(), pgconv.UUIDToPgtype(ref.ID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active reservations", err)
	}
	defer rows.Close()

	snapshots := make([]*shared.ReservationSnapshot, 0)
	for rows.Next() {
		snapshot, err := scanReservationSnapshot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list active reservations", err)
	}

	return snapshots, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservationSnapshot(row rowScanner) (*shared.ReservationSnapshot, error) {
	var (
		id, resID, userID    pgtype.UUID
		kind, status         string
		start, end, cAt, uAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &kind, &resID, &userID, &start, &end, &status, &cAt, &uAt); err != nil {
		return nil, err
	}

	return &shared.ReservationSnapshot{
		ID:           pgconv.UUIDFromPgtype(id),
		ResourceKind: resource.Kind(kind),
		ResourceID:   pgconv.UUIDFromPgtype(resID),
		UserID:       pgconv.UUIDFromPgtype(userID),
		StartTime:    pgconv.TimeFromPgtype(start),
		EndTime:      pgconv.TimeFromPgtype(end),
		Status:       reservation.Status(status),
		CreatedAt:    pgconv.TimeFromPgtype(cAt),
		UpdatedAt:    pgconv.TimeFromPgtype(uAt),
	}, nil
}
