package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abidjan(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultTimeZone)
	require.NoError(t, err)
	return loc
}

func TestParseTime_UsesZoneAndReferenceDay(t *testing.T) {
	loc := abidjan(t)
	ref := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseTime("09:15", loc, ref)
	require.NoError(t, err)
	assert.Equal(t, "09:15", ToHHMM(got, loc))
	assert.Equal(t, "2025-01-01", FormatDate(got, loc))
}

func TestParseTime_ReferenceDayIsTakenInZone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	// 23:30 UTC on Dec 31 is already Jan 1 in Paris.
	ref := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)

	got, err := ParseTime("08:00", paris, ref)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", FormatDate(got, paris))
	assert.Equal(t, time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC), got.UTC())
}

func TestParseTime_RejectsMalformed(t *testing.T) {
	loc := abidjan(t)
	for _, in := range []string{"", "9:00", "09:0", "0900", "24:00", "12:60", "ab:cd", "09:00:00", " 09:00"} {
		_, err := ParseTime(in, loc, time.Now())
		assert.Truef(t, errors.Is(err, ErrInvalidTimeFormat), "input %q", in)
	}
}

func TestParseTime_AcceptsEdges(t *testing.T) {
	loc := abidjan(t)
	for _, in := range []string{"00:00", "23:59"} {
		_, err := ParseTime(in, loc, time.Now())
		assert.NoError(t, err, in)
	}
}

func TestIsAlignedToStep(t *testing.T) {
	loc := abidjan(t)
	aligned, err := CombineDateAndTime("2025-01-02", "10:30", loc)
	require.NoError(t, err)
	misaligned, err := CombineDateAndTime("2025-01-02", "10:45", loc)
	require.NoError(t, err)

	assert.True(t, IsAlignedToStep(aligned, 30, loc))
	assert.False(t, IsAlignedToStep(misaligned, 30, loc))
	assert.True(t, IsAlignedToStep(misaligned, 15, loc))
	assert.False(t, IsAlignedToStep(aligned, 0, loc))
}

func TestIsWeekend(t *testing.T) {
	loc := abidjan(t)
	thursday, _ := ParseDate("2025-01-02", loc)
	saturday, _ := ParseDate("2025-01-04", loc)
	sunday, _ := ParseDate("2025-01-05", loc)

	assert.False(t, IsWeekend(thursday, loc))
	assert.True(t, IsWeekend(saturday, loc))
	assert.True(t, IsWeekend(sunday, loc))
}

func TestIsWeekend_EvaluatedInZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// Friday 20:00 UTC is Saturday 05:00 in Tokyo.
	friday := time.Date(2025, 1, 3, 20, 0, 0, 0, time.UTC)

	assert.False(t, IsWeekend(friday, time.UTC))
	assert.True(t, IsWeekend(friday, tokyo))
}

func TestOverlaps_HalfOpen(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 1, 2, h, m, 0, 0, time.UTC) }

	assert.False(t, Overlaps(at(9, 0), at(10, 0), at(10, 0), at(10, 30)), "touching end")
	assert.False(t, Overlaps(at(10, 0), at(10, 30), at(9, 0), at(10, 0)), "touching start")
	assert.True(t, Overlaps(at(9, 0), at(10, 0), at(9, 59), at(10, 30)))
	assert.True(t, Overlaps(at(9, 0), at(12, 0), at(10, 0), at(11, 0)), "contained")
	assert.True(t, Overlaps(at(9, 0), at(10, 0), at(9, 0), at(10, 0)), "identical")
}

func TestParseDate(t *testing.T) {
	loc := abidjan(t)
	day, err := ParseDate("2025-03-10", loc)
	require.NoError(t, err)
	assert.Equal(t, 0, day.Hour())

	for _, in := range []string{"", "2025-13-01", "2025-02-30", "10/03/2025", "2025-03-10T00:00:00Z"} {
		_, err := ParseDate(in, loc)
		assert.Truef(t, errors.Is(err, ErrInvalidDate), "input %q", in)
	}
}
