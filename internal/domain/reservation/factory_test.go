//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"deskbook/internal/domain/reservation"
	"deskbook/internal/domain/resource"
	"deskbook/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T) (*reservation.Factory, *clock.MockClock) {
	t.Helper()
	mockClock := clock.NewMockClock(base)
	return reservation.NewFactory(mockClock, reservation.BookingPolicy{MaxAdvanceDays: 30}), mockClock
}

func newRoom(t *testing.T, requiresApproval bool) *resource.Resource {
	t.Helper()
	room, err := resource.NewResource(uuid.New(), resource.KindRoom, "Board Room", 10, requiresApproval)
	require.NoError(t, err)
	return room
}

func TestCreateReservation(t *testing.T) {
	userID := uuid.New()

	t.Run("resource without approval starts confirmed", func(t *testing.T) {
		factory, _ := newFactory(t)
		r, err := factory.CreateReservation(newRoom(t, false), userID, slot(t, time.Hour, 2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, r.Status())
		assert.NotEqual(t, uuid.Nil, r.ID())
		assert.Equal(t, userID, r.UserID())
	})

	t.Run("resource requiring approval starts pending", func(t *testing.T) {
		factory, _ := newFactory(t)
		r, err := factory.CreateReservation(newRoom(t, true), userID, slot(t, time.Hour, 2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusPending, r.Status())
	})

	t.Run("start in the past is rejected", func(t *testing.T) {
		factory, _ := newFactory(t)
		_, err := factory.CreateReservation(newRoom(t, false), userID, slot(t, -time.Hour, time.Hour))
		require.ErrorIs(t, err, reservation.ErrStartInPast)
	})

	t.Run("start exactly now is allowed", func(t *testing.T) {
		factory, _ := newFactory(t)
		_, err := factory.CreateReservation(newRoom(t, false), userID, slot(t, 0, time.Hour))
		require.NoError(t, err)
	})

	t.Run("start beyond the advance limit is rejected", func(t *testing.T) {
		factory, _ := newFactory(t)
		farOut := 31 * 24 * time.Hour
		_, err := factory.CreateReservation(newRoom(t, false), userID, slot(t, farOut, farOut+time.Hour))
		require.ErrorIs(t, err, reservation.ErrTooFarInAdvance)
	})

	t.Run("start exactly at the advance limit is allowed", func(t *testing.T) {
		factory, _ := newFactory(t)
		limit := 30 * 24 * time.Hour
		_, err := factory.CreateReservation(newRoom(t, false), userID, slot(t, limit, limit+time.Hour))
		require.NoError(t, err)
	})

	t.Run("zero MaxAdvanceDays disables the limit", func(t *testing.T) {
		mockClock := clock.NewMockClock(base)
		factory := reservation.NewFactory(mockClock, reservation.BookingPolicy{})
		farOut := 365 * 24 * time.Hour
		_, err := factory.CreateReservation(newRoom(t, false), uuid.New(), slot(t, farOut, farOut+time.Hour))
		require.NoError(t, err)
	})

	t.Run("clock advance changes the verdict", func(t *testing.T) {
		factory, mockClock := newFactory(t)
		candidate := slot(t, time.Hour, 2*time.Hour)

		_, err := factory.CreateReservation(newRoom(t, false), userID, candidate)
		require.NoError(t, err)

		mockClock.Add(90 * time.Minute)
		_, err = factory.CreateReservation(newRoom(t, false), userID, candidate)
		require.ErrorIs(t, err, reservation.ErrStartInPast)
	})
}
