//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Well-known seed resources, matching the seed migration.
var (
	DeskA01ID      = uuid.MustParse("8c9e3a1e-0001-4c6f-9a2b-5d1f0e7a1101")
	DeskA02ID      = uuid.MustParse("8c9e3a1e-0002-4c6f-9a2b-5d1f0e7a1102")
	RoomAuroraID   = uuid.MustParse("8c9e3a1e-0011-4c6f-9a2b-5d1f0e7a1111")
	RoomBorealisID = uuid.MustParse("8c9e3a1e-0012-4c6f-9a2b-5d1f0e7a1112")
)

func CreateTestResource(t *testing.T, db DBLike, kind, name string, capacity int, requiresApproval bool) uuid.UUID {
	t.Helper()

	resourceID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO resources (id, kind, name, capacity, requires_approval) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (kind, name) DO NOTHING",
		resourceID, kind, name, capacity, requiresApproval)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM resources WHERE kind = $1 AND name = $2", kind, name).Scan(&resourceID)
	}

	return resourceID
}

func CreateTestReservation(t *testing.T, db DBLike, kind string, resourceID, userID uuid.UUID, start, end time.Time, status string) uuid.UUID {
	t.Helper()

	reservationID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO reservations (id, resource_kind, resource_id, user_id, start_time, end_time, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())",
		reservationID, kind, resourceID, userID, start, end, status)
	require.NoError(t, err)

	return reservationID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO resources (id, kind, name, capacity, requires_approval) VALUES
		    ('8c9e3a1e-0001-4c6f-9a2b-5d1f0e7a1101', 'desk', 'Desk A-01', 1, false),
		    ('8c9e3a1e-0002-4c6f-9a2b-5d1f0e7a1102', 'desk', 'Desk A-02', 1, false),
		    ('8c9e3a1e-0003-4c6f-9a2b-5d1f0e7a1103', 'desk', 'Desk B-01', 1, false),
		    ('8c9e3a1e-0011-4c6f-9a2b-5d1f0e7a1111', 'room', 'Meeting Room Aurora', 6, false),
		    ('8c9e3a1e-0012-4c6f-9a2b-5d1f0e7a1112', 'room', 'Board Room Borealis', 14, true)
		ON CONFLICT (kind, name) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
