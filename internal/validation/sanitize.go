package validation

import (
	"strings"
	"unicode"
)

// SanitizeText collapses line breaks and whitespace runs to single spaces,
// trims both ends and drops control and invisible formatting characters.
// SanitizeText(SanitizeText(s)) == SanitizeText(s) for every s.
func SanitizeText(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	pendingSpace := false
	for _, r := range value {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r), r == unicode.ReplacementChar:
			continue
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Sanitize normalizes the free-text fields of a checked reservation.  Title,
// objective and participant group must survive sanitization; an empty note
// is dropped.
func Sanitize(r Reservation) (Reservation, error) {
	r.Title = SanitizeText(r.Title)
	if r.Title == "" {
		return Reservation{}, emptyAfterSanitization("title")
	}

	if r.Note != nil {
		note := SanitizeText(*r.Note)
		if note == "" {
			r.Note = nil
		} else {
			r.Note = &note
		}
	}

	r.Objective = SanitizeText(r.Objective)
	if r.Objective == "" {
		return Reservation{}, emptyAfterSanitization("objective")
	}

	r.ParticipantGroup = SanitizeText(r.ParticipantGroup)
	if r.ParticipantGroup == "" {
		return Reservation{}, emptyAfterSanitization("participant group")
	}
	return r, nil
}
