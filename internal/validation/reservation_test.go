package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/schedule"
)

// Thursday 2 January 2025, mid-morning in Abidjan (UTC+0).
var thursday = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

func newValidator(now time.Time) *Validator {
	return New(schedule.Default(), schedule.FixedClock{T: now})
}

func validInput() Input {
	return Input{
		RoomID:           "room-1",
		Date:             "2025-01-06",
		Start:            "09:00",
		End:              "10:00",
		Objective:        "Cours",
		ParticipantGroup: "L1 Informatique",
		Title:            "Algorithmique",
	}
}

func requireIssue(t *testing.T, err error, code Code) *Error {
	t.Helper()
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %v", err)
	assert.Truef(t, verr.Has(code), "missing %s in %+v", code, verr.Issues)
	return verr
}

func TestValidate_Accepts(t *testing.T) {
	r, err := newValidator(thursday).Validate(validInput())
	require.NoError(t, err)

	assert.Equal(t, "room-1", r.RoomID)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), r.Day.UTC())
	assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), r.Start.UTC())
	assert.Equal(t, time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC), r.End.UTC())
	assert.Nil(t, r.Note)
}

func TestValidate_StructuralRules(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*Input)
		code  Code
		field string
	}{
		{"missing room", func(in *Input) { in.RoomID = "  " }, CodeRoomRequired, "roomId"},
		{"bad date", func(in *Input) { in.Date = "06/01/2025" }, CodeInvalidDate, "date"},
		{"bad start", func(in *Input) { in.Start = "9h" }, CodeInvalidTime, "start"},
		{"hour out of range", func(in *Input) { in.End = "25:00" }, CodeInvalidTime, "end"},
		{"blank objective", func(in *Input) { in.Objective = "\t" }, CodeObjectiveRequired, "objective"},
		{"blank group", func(in *Input) { in.ParticipantGroup = "" }, CodeGroupRequired, "participantGroup"},
		{"blank title", func(in *Input) { in.Title = " \n " }, CodeTitleRequired, "title"},
		{"long title", func(in *Input) { in.Title = strings.Repeat("é", 81) }, CodeTooLong, "title"},
		{"long note", func(in *Input) { n := strings.Repeat("x", 281); in.Note = &n }, CodeTooLong, "note"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			_, err := newValidator(thursday).Validate(in)
			verr := requireIssue(t, err, tc.code)
			assert.Equal(t, tc.field, verr.Issues[0].Field)
		})
	}
}

func TestValidate_LengthLimitsAreInclusive(t *testing.T) {
	in := validInput()
	in.Title = strings.Repeat("a", 80)
	note := strings.Repeat("b", 280)
	in.Note = &note

	_, err := newValidator(thursday).Validate(in)
	assert.NoError(t, err)
}

func TestValidate_InvertedTimes(t *testing.T) {
	in := validInput()
	in.Start, in.End = "10:00", "09:30"

	_, err := newValidator(thursday).Validate(in)
	verr := requireIssue(t, err, CodeInvalidOrder)
	assert.Equal(t, "end time must be after start time", verr.Error())

	// still reported when unrelated fields are broken too
	in.Title = ""
	_, err = newValidator(thursday).Validate(in)
	requireIssue(t, err, CodeInvalidOrder)
	requireIssue(t, err, CodeTitleRequired)
}

func TestValidate_EqualTimesAreInvalidOrder(t *testing.T) {
	in := validInput()
	in.End = in.Start
	_, err := newValidator(thursday).Validate(in)
	requireIssue(t, err, CodeInvalidOrder)
}

func TestValidate_OpeningHoursBoundary(t *testing.T) {
	v := newValidator(thursday)

	in := validInput()
	in.Start, in.End = "07:00", "07:30"
	_, err := v.Validate(in)
	assert.NoError(t, err)

	in.Start, in.End = "19:30", "20:00"
	_, err = v.Validate(in)
	assert.NoError(t, err)

	in.Start, in.End = "06:30", "07:30"
	_, err = v.Validate(in)
	verr := requireIssue(t, err, CodeOutsideOpeningHours)
	assert.Equal(t, "start", verr.Issues[0].Field)
	assert.Equal(t, "times must be between 07:00 and 20:00", verr.Error())

	in.Start, in.End = "19:30", "20:30"
	_, err = v.Validate(in)
	verr = requireIssue(t, err, CodeOutsideOpeningHours)
	assert.Equal(t, "end", verr.Issues[0].Field)
}

func TestValidate_Misaligned(t *testing.T) {
	in := validInput()
	in.Start, in.End = "09:15", "10:45"

	_, err := newValidator(thursday).Validate(in)
	verr := requireIssue(t, err, CodeMisalignedSlot)
	require.Len(t, verr.Issues, 2)
	assert.Equal(t, "start", verr.Issues[0].Field)
	assert.Equal(t, "end", verr.Issues[1].Field)
}

func TestValidate_AccumulatesSemanticIssues(t *testing.T) {
	in := validInput()
	in.Date = "2025-01-04" // Saturday, not today
	in.Start, in.End = "06:15", "06:00"

	_, err := newValidator(thursday).Validate(in)
	verr := requireIssue(t, err, CodeInvalidOrder)
	assert.True(t, verr.Has(CodeWeekendNotAllowed))
	assert.True(t, verr.Has(CodeOutsideOpeningHours))
	assert.True(t, verr.Has(CodeMisalignedSlot))
	assert.Equal(t, CodeInvalidOrder, verr.Issues[0].Code)
}

func TestValidate_WeekendRule(t *testing.T) {
	t.Run("future saturday from a weekday is rejected", func(t *testing.T) {
		in := validInput()
		in.Date = "2025-01-04"
		_, err := newValidator(thursday).Validate(in)
		requireIssue(t, err, CodeWeekendNotAllowed)
	})

	t.Run("same-day saturday is accepted", func(t *testing.T) {
		saturday := time.Date(2025, 1, 4, 8, 0, 0, 0, time.UTC)
		in := validInput()
		in.Date = "2025-01-04"
		_, err := newValidator(saturday).Validate(in)
		assert.NoError(t, err)
	})

	t.Run("exception does not extend to the next day", func(t *testing.T) {
		saturday := time.Date(2025, 1, 4, 8, 0, 0, 0, time.UTC)
		in := validInput()
		in.Date = "2025-01-05"
		_, err := newValidator(saturday).Validate(in)
		requireIssue(t, err, CodeWeekendNotAllowed)
	})
}

func TestValidate_SanitizesText(t *testing.T) {
	in := validInput()
	in.Title = "  Algo\r\n\r\n  avancée \t TD  "
	in.Objective = "Examen\n"
	in.ParticipantGroup = "M1   Info"
	note := " salle\nà  ranger "
	in.Note = &note

	r, err := newValidator(thursday).Validate(in)
	require.NoError(t, err)
	assert.Equal(t, "Algo avancée TD", r.Title)
	assert.Equal(t, "Examen", r.Objective)
	assert.Equal(t, "M1 Info", r.ParticipantGroup)
	require.NotNil(t, r.Note)
	assert.Equal(t, "salle à ranger", *r.Note)
}

func TestValidate_EmptyAfterSanitization(t *testing.T) {
	in := validInput()
	// passes the trimmed non-empty check, but is only invisible characters
	in.Title = "\u200b\u200b"

	_, err := newValidator(thursday).Validate(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyAfterSanitization))
	var verr *Error
	assert.False(t, errors.As(err, &verr))
}

func TestValidate_BlankNoteIsDropped(t *testing.T) {
	in := validInput()
	note := "\u0000"
	in.Note = &note

	r, err := newValidator(thursday).Validate(in)
	require.NoError(t, err)
	assert.Nil(t, r.Note)
}
