package readstore

import (
	"context"

	"deskbook/internal/domain/resource"
	"deskbook/internal/infra"
	"deskbook/internal/infra/db"
	"deskbook/internal/pkg/pgconv"
	"deskbook/internal/usecase/queries"
	"deskbook/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

type ResourceReadStore struct {
	dbtx db.DBTX
}

func NewResourceReadStore(dbtx db.DBTX) *ResourceReadStore {
	return &ResourceReadStore{dbtx: dbtx}
}

const findAllResourcesSQL = `
SELECT id, kind, name, capacity, requires_approval, created_at, updated_at
FROM resources
WHERE $1::text IS NULL OR kind = $1
ORDER BY kind, name
`

func (s *ResourceReadStore) FindAll(ctx context.Context, kind *resource.Kind) ([]*queries.ResourceView, error) {
	var kindArg pgtype.Text
	if kind != nil {
		kindArg = pgconv.StringToPgtype(kind.String())
	}

	rows, err := s.dbtx.Query(ctx, findAllResourcesSQL, kindArg)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list resources", err)
	}
	defer rows.Close()

	views := make([]*queries.ResourceView, 0)
	for rows.Next() {
		var (
			id                   pgtype.UUID
			kindStr, name        string
			capacity             int
			requiresApproval     bool
			createdAt, updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &kindStr, &name, &capacity, &requiresApproval, &createdAt, &updatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan resource row", err)
		}
		views = append(views, &queries.ResourceView{
			ID:               pgconv.UUIDFromPgtype(id),
			Kind:             kindStr,
			Name:             name,
			Capacity:         capacity,
			RequiresApproval: requiresApproval,
			CreatedAt:        pgconv.TimeFromPgtype(createdAt),
			UpdatedAt:        pgconv.TimeFromPgtype(updatedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list resources", err)
	}

	return views, nil
}

const findResourceByRefSQL = `
SELECT id, kind, name, capacity, requires_approval, created_at, updated_at
FROM resources
WHERE kind = $1 AND id = $2
`

func (s *ResourceReadStore) FindByRef(ctx context.Context, ref resource.Ref) (*queries.ResourceView, error) {
	var (
		id                   pgtype.UUID
		kindStr, name        string
		capacity             int
		requiresApproval     bool
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := s.dbtx.QueryRow(ctx, findResourceByRefSQL, ref.Kind.String(), pgconv.UUIDToPgtype(ref.ID)).
		Scan(&id, &kindStr, &name, &capacity, &requiresApproval, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource", err)
	}

	return &queries.ResourceView{
		ID:               pgconv.UUIDFromPgtype(id),
		Kind:             kindStr,
		Name:             name,
		Capacity:         capacity,
		RequiresApproval: requiresApproval,
		CreatedAt:        pgconv.TimeFromPgtype(createdAt),
		UpdatedAt:        pgconv.TimeFromPgtype(updatedAt),
	}, nil
}

// FindSnapshotByRef feeds the command side with domain-typed resource data.
func (s *ResourceReadStore) FindSnapshotByRef(ctx context.Context, ref resource.Ref) (*shared.ResourceSnapshot, error) {
	view, err := s.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	return &shared.ResourceSnapshot{
		ID:               view.ID,
		Kind:             resource.Kind(view.Kind),
		Name:             view.Name,
		Capacity:         view.Capacity,
		RequiresApproval: view.RequiresApproval,
	}, nil
}
