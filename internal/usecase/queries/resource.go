package queries

import (
	"context"

	"deskbook/internal/domain/resource"
	"deskbook/internal/infra"
)

type ResourceQueries interface {
	List(ctx context.Context, kind *resource.Kind) ([]*ResourceView, error)
	GetByRef(ctx context.Context, ref resource.Ref) (*ResourceView, error)
}

type resourceQueriesImpl struct {
	resources ResourceReadStore
}

func NewResourceQueries(resources ResourceReadStore) ResourceQueries {
	return &resourceQueriesImpl{resources: resources}
}

func (q *resourceQueriesImpl) List(ctx context.Context, kind *resource.Kind) ([]*ResourceView, error) {
	return q.resources.FindAll(ctx, kind)
}

func (q *resourceQueriesImpl) GetByRef(ctx context.Context, ref resource.Ref) (*ResourceView, error) {
	view, err := q.resources.FindByRef(ctx, ref)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return view, nil
}
