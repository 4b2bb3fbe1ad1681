package queries

import (
	"context"
	"time"

	"deskbook/internal/domain/reservation"
	"deskbook/internal/domain/resource"
	"deskbook/internal/domain/schedule"
	"deskbook/internal/infra"
	"deskbook/internal/pkg/clock"
	"deskbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrResourceNotFound    = errs.New("resource not found")
)

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, upcomingOnly bool) ([]*ReservationListItem, error)
	// GetAvailability recomputes the day's slot grid from the current
	// persisted reservations. Nothing is cached across calls.
	GetAvailability(ctx context.Context, ref resource.Ref, day time.Time) (*AvailabilityView, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, startingAfter *time.Time) ([]*ReservationListItem, error)
	// FindOccupancyForDay lists the intervals of non-terminal reservations on
	// the resource that intersect [dayStart, dayEnd).
	FindOccupancyForDay(ctx context.Context, ref resource.Ref, dayStart, dayEnd time.Time) ([]schedule.Interval, error)
}

type ResourceReadStore interface {
	FindAll(ctx context.Context, kind *resource.Kind) ([]*ResourceView, error)
	FindByRef(ctx context.Context, ref resource.Ref) (*ResourceView, error)
}

type reservationQueriesImpl struct {
	reservations ReservationReadStore
	resources    ResourceReadStore
	window       schedule.OperatingWindow
	clock        clock.Clock
}

func NewReservationQueries(
	reservations ReservationReadStore,
	resources ResourceReadStore,
	window schedule.OperatingWindow,
	clock clock.Clock,
) ReservationQueries {
	return &reservationQueriesImpl{
		reservations: reservations,
		resources:    resources,
		window:       window,
		clock:        clock,
	}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.reservations.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	q.decorate(view)
	return view, nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, upcomingOnly bool) ([]*ReservationListItem, error) {
	var startingAfter *time.Time
	now := q.clock.Now()
	if upcomingOnly {
		startingAfter = &now
	}

	items, err := q.reservations.FindByUserID(ctx, userID, startingAfter)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		item.Status = string(reservation.EffectiveStatus(reservation.Status(item.Status), item.EndTime, now))
	}
	return items, nil
}

func (q *reservationQueriesImpl) GetAvailability(ctx context.Context, ref resource.Ref, day time.Time) (*AvailabilityView, error) {
	res, err := q.resources.FindByRef(ctx, ref)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	occupied, err := q.reservations.FindOccupancyForDay(ctx, ref, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	availability := q.window.ForDay(dayStart, occupied)

	return &AvailabilityView{
		ResourceKind:   ref.Kind.String(),
		ResourceID:     ref.ID.String(),
		ResourceName:   res.Name,
		Date:           dayStart.Format("2006-01-02"),
		AllSlots:       availability.AllSlots,
		BookedSlots:    availability.BookedSlots,
		AvailableSlots: availability.AvailableSlots,
	}, nil
}

// decorate applies the on-read derived fields so stale stored state never
// leaks to callers.
func (q *reservationQueriesImpl) decorate(view *ReservationView) {
	now := q.clock.Now()
	view.Status = string(reservation.EffectiveStatus(reservation.Status(view.Status), view.EndTime, now))
	view.IsUpcoming = view.Status != string(reservation.StatusCancelled) && view.StartTime.After(now)
	view.IsPast = !view.EndTime.After(now)
}
