package schedule

import (
	"fmt"
	"time"
)

// Calendar binds the operating zone, opening hours and slot granularity.
// It is built once at start-up and is read-only afterwards, so a single
// value can be shared by every request handler.
type Calendar struct {
	loc          *time.Location
	openingStart string
	openingEnd   string
	slotMinutes  int
}

// NewCalendar validates its inputs and returns an immutable Calendar.
func NewCalendar(zone, openingStart, openingEnd string, slotMinutes int) (*Calendar, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	sh, sm, err := splitClock(openingStart)
	if err != nil {
		return nil, fmt.Errorf("opening start: %w", err)
	}
	eh, em, err := splitClock(openingEnd)
	if err != nil {
		return nil, fmt.Errorf("opening end: %w", err)
	}
	if sh*60+sm >= eh*60+em {
		return nil, fmt.Errorf("opening hours %s-%s are empty", openingStart, openingEnd)
	}
	if slotMinutes <= 0 {
		return nil, ErrInvalidStep
	}
	return &Calendar{
		loc:          loc,
		openingStart: openingStart,
		openingEnd:   openingEnd,
		slotMinutes:  slotMinutes,
	}, nil
}

// Default returns the calendar with the stock zone, hours and granularity.
func Default() *Calendar {
	c, err := NewCalendar(DefaultTimeZone, DefaultOpeningStart, DefaultOpeningEnd, DefaultSlotMinutes)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Calendar) Location() *time.Location { return c.loc }
func (c *Calendar) SlotMinutes() int         { return c.slotMinutes }

// OpeningHours returns the configured HH:MM bounds.
func (c *Calendar) OpeningHours() (start, end string) { return c.openingStart, c.openingEnd }

// OpeningBounds returns the opening and closing instants of ref's day.
func (c *Calendar) OpeningBounds(ref time.Time) (time.Time, time.Time) {
	// both strings were validated by NewCalendar
	start, _ := ParseTime(c.openingStart, c.loc, ref)
	end, _ := ParseTime(c.openingEnd, c.loc, ref)
	return start, end
}

// GenerateSlots walks from opening start to opening end in stepMinutes
// increments.  A trailing slot that would run past closing is dropped.
func (c *Calendar) GenerateSlots(ref time.Time, stepMinutes int) ([]Slot, error) {
	if stepMinutes <= 0 {
		return nil, ErrInvalidStep
	}
	open, closing := c.OpeningBounds(ref)
	step := time.Duration(stepMinutes) * time.Minute
	slots := make([]Slot, 0, int(closing.Sub(open)/step))
	for start := open; start.Before(closing); start = start.Add(step) {
		end := start.Add(step)
		if end.After(closing) {
			break
		}
		slots = append(slots, Slot{Start: start, End: end})
	}
	return slots, nil
}

// IsWithinOpeningHours reports whether t lies in [open, close] of its own day.
func (c *Calendar) IsWithinOpeningHours(t time.Time) bool {
	open, closing := c.OpeningBounds(t)
	return !t.Before(open) && !t.After(closing)
}

// ClampToOpeningHours pulls t back inside the opening hours of its day.
func (c *Calendar) ClampToOpeningHours(t time.Time) time.Time {
	open, closing := c.OpeningBounds(t)
	switch {
	case t.Before(open):
		return open
	case t.After(closing):
		return closing
	}
	return t
}

func (c *Calendar) IsAligned(t time.Time) bool { return IsAlignedToStep(t, c.slotMinutes, c.loc) }
func (c *Calendar) IsWeekend(t time.Time) bool { return IsWeekend(t, c.loc) }

// DayStart returns local midnight of a YYYY-MM-DD day.  Reservations store
// this instant as their coarse "date" key.
func (c *Calendar) DayStart(date string) (time.Time, error) { return ParseDate(date, c.loc) }

// Combine joins a YYYY-MM-DD day and an HH:MM wall clock.
func (c *Calendar) Combine(date, clock string) (time.Time, error) {
	return CombineDateAndTime(date, clock, c.loc)
}

// Today returns the calendar day of now in the operating zone.
func (c *Calendar) Today(now time.Time) string { return FormatDate(now, c.loc) }

func (c *Calendar) FormatDate(t time.Time) string { return FormatDate(t, c.loc) }
func (c *Calendar) ToHHMM(t time.Time) string     { return ToHHMM(t, c.loc) }
