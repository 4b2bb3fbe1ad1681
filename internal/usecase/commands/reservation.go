package commands

import (
	"context"

	"deskbook/internal/domain/reservation"
	"deskbook/internal/domain/resource"
	"deskbook/internal/infra"
	"deskbook/internal/pkg/clock"
	"deskbook/internal/pkg/errs"
	"deskbook/internal/usecase/queries"
	"deskbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrResourceNotFound    = errs.New("resource not found")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrInvalidTimeSlot     = errs.New("invalid time slot")
	ErrReservationConflict = errs.New("reservation conflict")
	ErrDomainValidation    = errs.New("domain validation error")
	ErrForbidden           = errs.New("not allowed to act on this reservation")
	ErrStorageUnavailable  = errs.New("storage unavailable")
)

type ReservationCommands interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateReservationInput) (*queries.ReservationView, error)
	Reschedule(ctx context.Context, actor Actor, id uuid.UUID, in RescheduleInput) (*queries.ReservationView, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) error
	Approve(ctx context.Context, id uuid.UUID) error
}

type reservationCommandsImpl struct {
	uow                shared.UnitOfWork
	factory            *reservation.Factory
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	factory *reservation.Factory,
	reservationQueries queries.ReservationQueries,
	clock clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:                uow,
		factory:            factory,
		reservationQueries: reservationQueries,
		clock:              clock,
	}
}

func (c *reservationCommandsImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	in CreateReservationInput,
) (*queries.ReservationView, error) {
	resourceEntity, err := c.resolveResource(ctx, in.Resource)
	if err != nil {
		return nil, err
	}

	slot, err := reservation.NewTimeSlot(in.StartTime, in.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	reservationEntity, err := c.factory.CreateReservation(resourceEntity, userID, slot)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Fast-path pre-check; the store's exclusion constraint on insert is
		// the authoritative arbiter for concurrent writers.
		conflict, err := c.hasConflict(ctx, tx.Reads(), in.Resource, slot, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict {
			return ErrReservationConflict
		}

		if _, err := tx.Reservations().Insert(ctx, tx.DB(), reservationEntity); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrReservationConflict
			}
			return errs.Mark(err, ErrStorageUnavailable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Read-after-write: return the full view from the read store
	return c.reservationQueries.GetByID(ctx, reservationEntity.ID())
}

func (c *reservationCommandsImpl) Reschedule(
	ctx context.Context,
	actor Actor,
	id uuid.UUID,
	in RescheduleInput,
) (*queries.ReservationView, error) {
	snapshot, err := c.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(snapshot.UserID) {
		return nil, ErrForbidden
	}

	start := snapshot.StartTime
	end := snapshot.EndTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}

	slot, err := reservation.NewTimeSlot(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	reservationEntity, err := snapshot.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrStorageUnavailable)
	}
	if err := reservationEntity.Reschedule(slot, c.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Re-check against the new interval with this reservation excluded;
		// on conflict the stored interval is left untouched.
		ref := reservationEntity.Resource()
		conflict, err := c.hasConflict(ctx, tx.Reads(), ref, slot, id)
		if err != nil {
			return err
		}
		if conflict {
			return ErrReservationConflict
		}

		if err := tx.Reservations().UpdateInterval(ctx, tx.DB(), id, slot); err != nil {
			switch {
			case infra.IsKind(err, infra.KindConflict):
				return ErrReservationConflict
			case infra.IsKind(err, infra.KindPreconditionFailed):
				// Cancelled concurrently after the snapshot read
				return errs.Mark(err, ErrDomainValidation)
			default:
				return errs.Mark(err, ErrStorageUnavailable)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.reservationQueries.GetByID(ctx, id)
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, actor Actor, id uuid.UUID) error {
	snapshot, err := c.findReservation(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanActOn(snapshot.UserID) {
		return ErrForbidden
	}

	// Idempotent: a second cancel succeeds without touching the store.
	if snapshot.Status == reservation.StatusCancelled {
		return nil
	}

	reservationEntity, err := snapshot.ToDomain()
	if err != nil {
		return errs.Mark(err, ErrStorageUnavailable)
	}
	if err := reservationEntity.Cancel(c.clock.Now()); err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.Reservations().UpdateStatus(ctx, tx.DB(), id, reservation.StatusCancelled,
			reservation.StatusPending, reservation.StatusConfirmed)
		if err != nil {
			if infra.IsKind(err, infra.KindPreconditionFailed) {
				// Another cancel won the race; still an idempotent success
				return nil
			}
			return errs.Mark(err, ErrStorageUnavailable)
		}
		return nil
	})
}

func (c *reservationCommandsImpl) Approve(ctx context.Context, id uuid.UUID) error {
	snapshot, err := c.findReservation(ctx, id)
	if err != nil {
		return err
	}

	reservationEntity, err := snapshot.ToDomain()
	if err != nil {
		return errs.Mark(err, ErrStorageUnavailable)
	}
	if err := reservationEntity.Approve(); err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Guarded write: only a still-pending row flips, so a cancel landing
		// after the snapshot read is never resurrected.
		err := tx.Reservations().UpdateStatus(ctx, tx.DB(), id, reservation.StatusConfirmed,
			reservation.StatusPending)
		if err != nil {
			switch {
			case infra.IsKind(err, infra.KindPreconditionFailed):
				return errs.Mark(err, ErrDomainValidation)
			case infra.IsKind(err, infra.KindConflict):
				return ErrReservationConflict
			default:
				return errs.Mark(err, ErrStorageUnavailable)
			}
		}
		return nil
	})
}

func (c *reservationCommandsImpl) resolveResource(
	ctx context.Context,
	ref resource.Ref,
) (*resource.Resource, error) {
	snapshot, err := c.uow.CommandReads().ResourceByRef(ctx, ref)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, errs.Mark(err, ErrStorageUnavailable)
	}

	resourceEntity, err := resource.NewResource(
		snapshot.ID,
		snapshot.Kind,
		snapshot.Name,
		snapshot.Capacity,
		snapshot.RequiresApproval,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	return resourceEntity, nil
}

func (c *reservationCommandsImpl) findReservation(
	ctx context.Context,
	id uuid.UUID,
) (*shared.ReservationSnapshot, error) {
	snapshot, err := c.uow.CommandReads().ReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrStorageUnavailable)
	}
	return snapshot, nil
}

// hasConflict runs the unified half-open overlap test against every
// non-terminal reservation on the resource, optionally excluding one id.
func (c *reservationCommandsImpl) hasConflict(
	ctx context.Context,
	reads shared.CommandReads,
	ref resource.Ref,
	candidate reservation.TimeSlot,
	excludeID uuid.UUID,
) (bool, error) {
	active, err := reads.ActiveReservations(ctx, ref)
	if err != nil {
		return false, errs.Mark(err, ErrStorageUnavailable)
	}

	slots := make([]reservation.TimeSlot, 0, len(active))
	for _, snapshot := range active {
		if snapshot.ID == excludeID {
			continue
		}
		slot, err := reservation.NewTimeSlot(snapshot.StartTime, snapshot.EndTime)
		if err != nil {
			return false, errs.Mark(err, ErrStorageUnavailable)
		}
		slots = append(slots, slot)
	}

	return reservation.HasConflict(candidate, slots), nil
}
