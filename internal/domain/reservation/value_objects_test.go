//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"deskbook/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func slot(t *testing.T, startOffset, endOffset time.Duration) reservation.TimeSlot {
	t.Helper()
	s, err := reservation.NewTimeSlot(base.Add(startOffset), base.Add(endOffset))
	require.NoError(t, err)
	return s
}

func TestNewTimeSlot(t *testing.T) {
	t.Run("start before end succeeds", func(t *testing.T) {
		s, err := reservation.NewTimeSlot(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, base, s.Start())
		assert.Equal(t, base.Add(time.Hour), s.End())
	})

	t.Run("start equal to end fails", func(t *testing.T) {
		_, err := reservation.NewTimeSlot(base, base)
		require.ErrorIs(t, err, reservation.ErrInvalidTimeSlot)
	})

	t.Run("start after end fails", func(t *testing.T) {
		_, err := reservation.NewTimeSlot(base.Add(time.Hour), base)
		require.ErrorIs(t, err, reservation.ErrInvalidTimeSlot)
	})
}

func TestTimeSlotOverlaps(t *testing.T) {
	cases := []struct {
		name    string
		a, b    reservation.TimeSlot
		overlap bool
	}{
		{
			name:    "identical intervals",
			a:       slot(t, 0, time.Hour),
			b:       slot(t, 0, time.Hour),
			overlap: true,
		},
		{
			name:    "b starts during a",
			a:       slot(t, 0, time.Hour),
			b:       slot(t, 30*time.Minute, 90*time.Minute),
			overlap: true,
		},
		{
			name:    "b ends during a",
			a:       slot(t, 0, time.Hour),
			b:       slot(t, -30*time.Minute, 30*time.Minute),
			overlap: true,
		},
		{
			name:    "b fully encloses a",
			a:       slot(t, 0, time.Hour),
			b:       slot(t, -time.Hour, 2*time.Hour),
			overlap: true,
		},
		{
			name:    "a fully encloses b",
			a:       slot(t, 0, 2*time.Hour),
			b:       slot(t, 30*time.Minute, time.Hour),
			overlap: true,
		},
		{
			name:    "back to back, b after a",
			a:       slot(t, 0, time.Hour),
			b:       slot(t, time.Hour, 2*time.Hour),
			overlap: false,
		},
		{
			name:    "back to back, b before a",
			a:       slot(t, 0, time.Hour),
			b:       slot(t, -time.Hour, 0),
			overlap: false,
		},
		{
			name:    "disjoint with a gap",
			a:       slot(t, 0, time.Hour),
			b:       slot(t, 2*time.Hour, 3*time.Hour),
			overlap: false,
		},
		{
			name:    "one minute overlap at the boundary",
			a:       slot(t, 0, time.Hour),
			b:       slot(t, 59*time.Minute, 2*time.Hour),
			overlap: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.overlap, c.a.Overlaps(c.b))
			// The test is symmetric by construction
			assert.Equal(t, c.overlap, c.b.Overlaps(c.a))
		})
	}
}

func TestHasConflict(t *testing.T) {
	existing := []reservation.TimeSlot{
		slot(t, 0, time.Hour),
		slot(t, 2*time.Hour, 3*time.Hour),
	}

	t.Run("candidate in a free gap", func(t *testing.T) {
		assert.False(t, reservation.HasConflict(slot(t, time.Hour, 2*time.Hour), existing))
	})

	t.Run("candidate overlapping one slot", func(t *testing.T) {
		assert.True(t, reservation.HasConflict(slot(t, 30*time.Minute, 90*time.Minute), existing))
	})

	t.Run("no existing slots", func(t *testing.T) {
		assert.False(t, reservation.HasConflict(slot(t, 0, time.Hour), nil))
	})
}

func TestToTstzrange(t *testing.T) {
	s := slot(t, 0, time.Hour)
	assert.Equal(t, "[2026-03-10T09:00:00Z,2026-03-10T10:00:00Z)", s.ToTstzrange())
}
