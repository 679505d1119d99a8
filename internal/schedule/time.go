// Package schedule holds the calendar arithmetic behind room bookings:
// wall-clock parsing, opening hours, fixed-size slots and the alignment and
// weekend predicates used by the validator.  Every computation is evaluated
// in a single operating time zone, whatever zone the caller lives in.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata" // embed zone data so Africa/Abidjan resolves in slim images
)

const (
	DefaultTimeZone     = "Africa/Abidjan"
	DefaultOpeningStart = "07:00"
	DefaultOpeningEnd   = "20:00"
	DefaultSlotMinutes  = 30

	// DateLayout is the calendar-day format accepted on the wire.
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format accepted on the wire.
	ClockLayout = "15:04"
)

var (
	// ErrInvalidTimeFormat is returned when a wall-clock string is not HH:MM
	// or encodes an out of range hour or minute.
	ErrInvalidTimeFormat = errors.New("invalid time format")
	// ErrInvalidStep is returned when a slot step is zero or negative.
	ErrInvalidStep = errors.New("step must be strictly positive")
	// ErrInvalidDate is returned when a calendar day is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

var hhmmPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Slot is a half-open [Start, End) interval of fixed duration.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Clock abstracts "now" so that the weekend same-day rule can be tested.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// splitClock validates an HH:MM string and returns its hour and minute.
func splitClock(value string) (int, int, error) {
	if !hhmmPattern.MatchString(value) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}
	hours, _ := strconv.Atoi(value[:2])
	minutes, _ := strconv.Atoi(value[3:])
	if hours > 23 || minutes > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}
	return hours, minutes, nil
}

// ParseTime interprets value as a wall-clock time on ref's calendar day in loc.
func ParseTime(value string, loc *time.Location, ref time.Time) (time.Time, error) {
	hours, minutes, err := splitClock(value)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := ref.In(loc).Date()
	return time.Date(y, m, d, hours, minutes, 0, 0, loc), nil
}

// ParseDate returns local midnight of a YYYY-MM-DD day in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return day, nil
}

// CombineDateAndTime joins a YYYY-MM-DD day and an HH:MM wall clock in loc.
func CombineDateAndTime(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(clock, loc, day)
}

// ToHHMM formats t as a wall clock in loc.
func ToHHMM(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}

// FormatDate formats t as a calendar day in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// minutesFromMidnight counts whole minutes since local midnight in loc.
func minutesFromMidnight(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// IsAlignedToStep reports whether t falls on a multiple of stepMinutes past
// local midnight.  A non-positive step never aligns.
func IsAlignedToStep(t time.Time, stepMinutes int, loc *time.Location) bool {
	if stepMinutes <= 0 {
		return false
	}
	return minutesFromMidnight(t, loc)%stepMinutes == 0
}

// IsWeekend reports whether t is a Saturday or Sunday in loc.
func IsWeekend(t time.Time, loc *time.Location) bool {
	switch t.In(loc).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// Overlaps is the half-open interval intersection test: [aStart,aEnd) and
// [bStart,bEnd) intersect iff aStart < bEnd and bStart < aEnd.  Intervals
// that only touch at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
