package validation

import (
	"errors"
	"fmt"
)

// Code identifies which rule a reservation payload broke.
type Code string

const (
	CodeRoomRequired        Code = "room_required"
	CodeUnknownRoom         Code = "unknown_room"
	CodeUnknownUser         Code = "unknown_user"
	CodeInvalidDate         Code = "invalid_date"
	CodeInvalidTime         Code = "invalid_time"
	CodeTitleRequired       Code = "title_required"
	CodeObjectiveRequired   Code = "objective_required"
	CodeGroupRequired       Code = "group_required"
	CodeTooLong             Code = "too_long"
	CodeInvalidOrder        Code = "invalid_order"
	CodeWeekendNotAllowed   Code = "weekend_not_allowed"
	CodeOutsideOpeningHours Code = "outside_opening_hours"
	CodeMisalignedSlot      Code = "misaligned_slot"
	CodeMalformedBody       Code = "malformed_body"
)

// Issue is a single violated rule, attached to the offending field.
type Issue struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Error is the InvalidPayload failure.  Issues keep evaluation order, so the
// first one is the governing rule and is what Error() reports.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "invalid reservation payload"
	}
	return e.Issues[0].Message
}

// Has reports whether any issue carries code.
func (e *Error) Has(code Code) bool {
	if e == nil {
		return false
	}
	for _, is := range e.Issues {
		if is.Code == code {
			return true
		}
	}
	return false
}

func (e *Error) add(field string, code Code, message string) {
	e.Issues = append(e.Issues, Issue{Field: field, Code: code, Message: message})
}

func (e *Error) empty() bool { return len(e.Issues) == 0 }

// NewError builds a single-issue validation error.  Callers outside this
// package use it for rules that need the store, such as unknown rooms.
func NewError(field string, code Code, message string) *Error {
	e := &Error{}
	e.add(field, code, message)
	return e
}

// ErrEmptyAfterSanitization is returned when a required text field only held
// characters that sanitization strips.
var ErrEmptyAfterSanitization = errors.New("empty after sanitization")

func emptyAfterSanitization(field string) error {
	return fmt.Errorf("%s cannot be empty: %w", field, ErrEmptyAfterSanitization)
}
