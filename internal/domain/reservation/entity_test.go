//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"deskbook/internal/domain/reservation"
	"deskbook/internal/domain/resource"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconstruct(t *testing.T, status reservation.Status, startOffset, endOffset time.Duration) *reservation.Reservation {
	t.Helper()
	return reservation.ReconstructReservation(
		uuid.New(),
		resource.NewRef(resource.KindRoom, uuid.New()),
		uuid.New(),
		slot(t, startOffset, endOffset),
		status,
		base.Add(-time.Hour),
		base.Add(-time.Hour),
	)
}

func TestApprove(t *testing.T) {
	t.Run("pending becomes confirmed", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusPending, time.Hour, 2*time.Hour)
		require.NoError(t, r.Approve())
		assert.Equal(t, reservation.StatusConfirmed, r.Status())
	})

	t.Run("confirmed cannot be approved again", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, time.Hour, 2*time.Hour)
		require.ErrorIs(t, r.Approve(), reservation.ErrNotPending)
	})

	t.Run("cancelled cannot be approved", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusCancelled, time.Hour, 2*time.Hour)
		require.ErrorIs(t, r.Approve(), reservation.ErrNotPending)
	})
}

func TestCancel(t *testing.T) {
	now := base

	t.Run("confirmed upcoming becomes cancelled", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, time.Hour, 2*time.Hour)
		require.NoError(t, r.Cancel(now))
		assert.Equal(t, reservation.StatusCancelled, r.Status())
	})

	t.Run("pending becomes cancelled", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusPending, time.Hour, 2*time.Hour)
		require.NoError(t, r.Cancel(now))
		assert.Equal(t, reservation.StatusCancelled, r.Status())
	})

	t.Run("cancelling twice is a no-op success", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, time.Hour, 2*time.Hour)
		require.NoError(t, r.Cancel(now))
		require.NoError(t, r.Cancel(now))
		assert.Equal(t, reservation.StatusCancelled, r.Status())
	})

	t.Run("completed reservation cannot be cancelled", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, -2*time.Hour, -time.Hour)
		require.ErrorIs(t, r.Cancel(now), reservation.ErrAlreadyCompleted)
	})

	t.Run("in-progress reservation can still be cancelled", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, -time.Hour, time.Hour)
		require.NoError(t, r.Cancel(now))
	})
}

func TestReschedule(t *testing.T) {
	now := base

	t.Run("moves the interval", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, time.Hour, 2*time.Hour)
		newSlot := slot(t, 3*time.Hour, 4*time.Hour)
		require.NoError(t, r.Reschedule(newSlot, now))
		assert.Equal(t, newSlot, r.Slot())
	})

	t.Run("cancelled cannot be rescheduled", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusCancelled, time.Hour, 2*time.Hour)
		require.ErrorIs(t, r.Reschedule(slot(t, 3*time.Hour, 4*time.Hour), now), reservation.ErrTerminalState)
	})

	t.Run("completed cannot be rescheduled", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, -2*time.Hour, -time.Hour)
		require.ErrorIs(t, r.Reschedule(slot(t, 3*time.Hour, 4*time.Hour), now), reservation.ErrAlreadyCompleted)
	})

	t.Run("new start in the past is rejected", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, time.Hour, 2*time.Hour)
		require.ErrorIs(t, r.Reschedule(slot(t, -time.Hour, time.Hour), now), reservation.ErrStartInPast)
	})
}

func TestEffectiveStatus(t *testing.T) {
	now := base

	cases := []struct {
		name     string
		stored   reservation.Status
		end      time.Time
		expected reservation.Status
	}{
		{"confirmed with future end stays confirmed", reservation.StatusConfirmed, now.Add(time.Hour), reservation.StatusConfirmed},
		{"confirmed with past end reads completed", reservation.StatusConfirmed, now.Add(-time.Hour), reservation.StatusCompleted},
		{"confirmed ending exactly now reads completed", reservation.StatusConfirmed, now, reservation.StatusCompleted},
		{"pending with past end stays pending", reservation.StatusPending, now.Add(-time.Hour), reservation.StatusPending},
		{"cancelled with past end stays cancelled", reservation.StatusCancelled, now.Add(-time.Hour), reservation.StatusCancelled},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, reservation.EffectiveStatus(c.stored, c.end, now))
		})
	}
}

func TestDerivedFlags(t *testing.T) {
	now := base

	t.Run("upcoming", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, time.Hour, 2*time.Hour)
		assert.True(t, r.IsUpcoming(now))
		assert.False(t, r.IsPast(now))
		assert.False(t, r.IsActive(now))
	})

	t.Run("active", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, -time.Hour, time.Hour)
		assert.True(t, r.IsActive(now))
		assert.False(t, r.IsUpcoming(now))
	})

	t.Run("past", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusConfirmed, -2*time.Hour, -time.Hour)
		assert.True(t, r.IsPast(now))
		assert.True(t, r.IsCompleted(now))
	})

	t.Run("cancelled is never upcoming", func(t *testing.T) {
		r := reconstruct(t, reservation.StatusCancelled, time.Hour, 2*time.Hour)
		assert.False(t, r.IsUpcoming(now))
	})
}
