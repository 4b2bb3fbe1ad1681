// Package schedule computes the day's availability grid. Slots are derived
// values: they are recomputed from the current reservations on every query
// and never stored.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidWindow      = errors.New("operating window close hour must be after open hour")
	ErrInvalidGranularity = errors.New("slot granularity must divide the operating window")
)

// OperatingWindow is the bookable portion of a day: [OpenHour, CloseHour)
// sliced into SlotMinutes steps. The default 08:00-20:00 window with
// 30-minute slots yields 24 slots per day.
type OperatingWindow struct {
	openHour    int
	closeHour   int
	slotMinutes int
}

func NewOperatingWindow(openHour, closeHour, slotMinutes int) (OperatingWindow, error) {
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return OperatingWindow{}, ErrInvalidWindow
	}
	if slotMinutes <= 0 || ((closeHour-openHour)*60)%slotMinutes != 0 {
		return OperatingWindow{}, ErrInvalidGranularity
	}
	return OperatingWindow{
		openHour:    openHour,
		closeHour:   closeHour,
		slotMinutes: slotMinutes,
	}, nil
}

func (w OperatingWindow) OpenHour() int    { return w.openHour }
func (w OperatingWindow) CloseHour() int   { return w.closeHour }
func (w OperatingWindow) SlotMinutes() int { return w.slotMinutes }

func (w OperatingWindow) SlotCount() int {
	return (w.closeHour - w.openHour) * 60 / w.slotMinutes
}

// SlotLabels returns the full grid in chronological order, labelled HH:MM.
func (w OperatingWindow) SlotLabels() []string {
	labels := make([]string, 0, w.SlotCount())
	for minute := w.openHour * 60; minute < w.closeHour*60; minute += w.slotMinutes {
		labels = append(labels, fmt.Sprintf("%02d:%02d", minute/60, minute%60))
	}
	return labels
}

// Interval is a half-open [start, end) occupancy to project onto the grid.
type Interval struct {
	Start time.Time
	End   time.Time
}

type Availability struct {
	AllSlots       []string
	BookedSlots    []string
	AvailableSlots []string
}

// ForDay partitions the day's grid into booked and free slots. For each
// reservation intersecting the day it walks forward in slot-granularity steps
// from the slot-aligned floor of the reservation start while current < end,
// so a reservation not aligned to the grid still marks every slot it
// overlaps. A reservation spanning midnight only marks the queried day's
// slots that intersect it.
func (w OperatingWindow) ForDay(day time.Time, reservations []Interval) Availability {
	allSlots := w.SlotLabels()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	step := time.Duration(w.slotMinutes) * time.Minute

	inGrid := make(map[string]bool, len(allSlots))
	for _, label := range allSlots {
		inGrid[label] = false
	}

	for _, r := range reservations {
		current := w.alignToGrid(dayStart, r.Start)
		for current.Before(r.End) {
			if current.Year() == day.Year() && current.YearDay() == day.YearDay() {
				label := current.In(day.Location()).Format("15:04")
				if _, ok := inGrid[label]; ok {
					inGrid[label] = true
				}
			}
			current = current.Add(step)
		}
	}

	booked := make([]string, 0, len(allSlots))
	available := make([]string, 0, len(allSlots))
	for _, label := range allSlots {
		if inGrid[label] {
			booked = append(booked, label)
		} else {
			available = append(available, label)
		}
	}

	return Availability{
		AllSlots:       allSlots,
		BookedSlots:    booked,
		AvailableSlots: available,
	}
}

// alignToGrid floors t to the nearest slot boundary at or before it, relative
// to the day origin, so partial-slot occupancy rounds to booked.
func (w OperatingWindow) alignToGrid(dayStart, t time.Time) time.Time {
	if t.Before(dayStart) {
		return dayStart.Add(time.Duration(w.openHour) * time.Hour)
	}
	step := time.Duration(w.slotMinutes) * time.Minute
	offset := t.Sub(dayStart)
	return dayStart.Add(offset - (offset % step))
}
