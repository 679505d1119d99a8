// Package validation checks a proposed booking against the shape and
// business rules of a reservation and normalizes its free-text fields.  It
// performs no I/O; a Validator can be shared by concurrent requests.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/room-reservation/internal/schedule"
)

const (
	MaxTextLength = 80
	MaxNoteLength = 280
)

// Input is a candidate reservation as submitted by a caller.  Date is a
// YYYY-MM-DD day and Start/End are HH:MM wall clocks in the operating zone.
type Input struct {
	RoomID           string  `json:"roomId"`
	Date             string  `json:"date"`
	Start            string  `json:"start"`
	End              string  `json:"end"`
	Objective        string  `json:"objective"`
	ParticipantGroup string  `json:"participantGroup"`
	Title            string  `json:"title"`
	Note             *string `json:"note,omitempty"`
}

// Reservation is a validated, sanitized booking ready to be persisted.
// Day is local midnight of Date; Start and End are absolute instants.
type Reservation struct {
	RoomID           string
	Date             string
	Day              time.Time
	Start            time.Time
	End              time.Time
	Title            string
	Objective        string
	ParticipantGroup string
	Note             *string
}

// Validator evaluates reservation payloads against a Calendar.
type Validator struct {
	cal   *schedule.Calendar
	clock schedule.Clock
}

// New returns a Validator.  A nil clock reads the system time.
func New(cal *schedule.Calendar, clock schedule.Clock) *Validator {
	if clock == nil {
		clock = schedule.RealClock{}
	}
	return &Validator{cal: cal, clock: clock}
}

// Calendar exposes the calendar the validator was built with.
func (v *Validator) Calendar() *schedule.Calendar { return v.cal }

// Validate runs the structural and semantic checks and then sanitizes the
// text fields.  It returns *Error for rule violations and an error wrapping
// ErrEmptyAfterSanitization when a required field sanitizes to nothing.
func (v *Validator) Validate(in Input) (Reservation, error) {
	checked, err := v.Check(in)
	if err != nil {
		return Reservation{}, err
	}
	return Sanitize(checked)
}

// Check runs the structural and semantic rules without sanitizing.  All
// applicable issues are collected; semantic rules only run once the date and
// both times parse.
func (v *Validator) Check(in Input) (Reservation, error) {
	verr := &Error{}
	r := Reservation{
		RoomID:           strings.TrimSpace(in.RoomID),
		Date:             strings.TrimSpace(in.Date),
		Title:            strings.TrimSpace(in.Title),
		Objective:        strings.TrimSpace(in.Objective),
		ParticipantGroup: strings.TrimSpace(in.ParticipantGroup),
	}
	if in.Note != nil {
		note := strings.TrimSpace(*in.Note)
		r.Note = &note
	}
	startRaw := strings.TrimSpace(in.Start)
	endRaw := strings.TrimSpace(in.End)

	if r.RoomID == "" {
		verr.add("roomId", CodeRoomRequired, "room is required")
	}

	day, dateErr := v.cal.DayStart(r.Date)
	if dateErr != nil {
		verr.add("date", CodeInvalidDate, "invalid date")
	}
	start, startErr := schedule.ParseTime(startRaw, v.cal.Location(), day)
	if startErr != nil {
		verr.add("start", CodeInvalidTime, "invalid time (expected HH:MM)")
	}
	end, endErr := schedule.ParseTime(endRaw, v.cal.Location(), day)
	if endErr != nil {
		verr.add("end", CodeInvalidTime, "invalid time (expected HH:MM)")
	}

	requireText(verr, "objective", r.Objective, CodeObjectiveRequired, "objective is required", MaxTextLength)
	requireText(verr, "participantGroup", r.ParticipantGroup, CodeGroupRequired, "participant group is required", MaxTextLength)
	requireText(verr, "title", r.Title, CodeTitleRequired, "title is required", MaxTextLength)
	if r.Note != nil && utf8.RuneCountInString(*r.Note) > MaxNoteLength {
		verr.add("note", CodeTooLong, fmt.Sprintf("note cannot exceed %d characters", MaxNoteLength))
	}

	if dateErr == nil && startErr == nil && endErr == nil {
		v.checkSlot(verr, r.Date, day, start, end)
	}

	if !verr.empty() {
		return Reservation{}, verr
	}
	r.Day, r.Start, r.End = day, start, end
	return r, nil
}

// checkSlot applies the time rules: ordering, weekends, opening hours and
// slot alignment.
func (v *Validator) checkSlot(verr *Error, date string, day, start, end time.Time) {
	if !start.Before(end) {
		verr.add("end", CodeInvalidOrder, "end time must be after start time")
	}

	// Weekend bookings are only accepted for the current day.
	if v.cal.IsWeekend(start) && date != v.cal.Today(v.clock.Now()) {
		verr.add("date", CodeWeekendNotAllowed, "reservations are not allowed on weekends")
	}

	open, closing := v.cal.OpeningBounds(day)
	openLabel, closeLabel := v.cal.OpeningHours()
	outside := fmt.Sprintf("times must be between %s and %s", openLabel, closeLabel)
	if start.Before(open) || start.After(closing) {
		verr.add("start", CodeOutsideOpeningHours, outside)
	}
	if end.Before(open) || end.After(closing) {
		verr.add("end", CodeOutsideOpeningHours, outside)
	}

	misaligned := fmt.Sprintf("times must be multiples of %d minutes", v.cal.SlotMinutes())
	if !v.cal.IsAligned(start) {
		verr.add("start", CodeMisalignedSlot, misaligned)
	}
	if !v.cal.IsAligned(end) {
		verr.add("end", CodeMisalignedSlot, misaligned)
	}
}

func requireText(verr *Error, field, value string, code Code, message string, max int) {
	if value == "" {
		verr.add(field, code, message)
		return
	}
	if utf8.RuneCountInString(value) > max {
		verr.add(field, CodeTooLong, fmt.Sprintf("%s cannot exceed %d characters", field, max))
	}
}
