package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots_CoversOpeningHours(t *testing.T) {
	cal := Default()
	ref := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	slots, err := cal.GenerateSlots(ref, DefaultSlotMinutes)
	require.NoError(t, err)

	// 07:00 to 20:00 is 13 hours, 26 half hours.
	require.Len(t, slots, 26)
	assert.Equal(t, "07:00", cal.ToHHMM(slots[0].Start))
	assert.Equal(t, "20:00", cal.ToHHMM(slots[len(slots)-1].End))
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].End, slots[i].Start)
	}
}

func TestGenerateSlots_DropsPartialTrailingSlot(t *testing.T) {
	cal := Default()
	slots, err := cal.GenerateSlots(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), 120)
	require.NoError(t, err)

	// floor(780 / 120) = 6; the 19:00-21:00 slot would pass closing.
	require.Len(t, slots, 6)
	assert.Equal(t, "19:00", cal.ToHHMM(slots[5].End))
}

func TestGenerateSlots_InvalidStep(t *testing.T) {
	cal := Default()
	for _, step := range []int{0, -30} {
		_, err := cal.GenerateSlots(time.Now(), step)
		assert.True(t, errors.Is(err, ErrInvalidStep))
	}
}

func TestCalendar_OpeningHoursInclusive(t *testing.T) {
	cal := Default()
	at := func(clock string) time.Time {
		v, err := cal.Combine("2025-01-02", clock)
		require.NoError(t, err)
		return v
	}

	assert.True(t, cal.IsWithinOpeningHours(at("07:00")))
	assert.True(t, cal.IsWithinOpeningHours(at("12:00")))
	assert.True(t, cal.IsWithinOpeningHours(at("20:00")))
	assert.False(t, cal.IsWithinOpeningHours(at("06:30")))
	assert.False(t, cal.IsWithinOpeningHours(at("20:30")))

	assert.Equal(t, at("07:00"), cal.ClampToOpeningHours(at("06:30")))
	assert.Equal(t, at("20:00"), cal.ClampToOpeningHours(at("22:00")))
	assert.Equal(t, at("09:00"), cal.ClampToOpeningHours(at("09:00")))
}

func TestNewCalendar_Validation(t *testing.T) {
	_, err := NewCalendar("Mars/Olympus", "07:00", "20:00", 30)
	assert.Error(t, err)

	_, err = NewCalendar(DefaultTimeZone, "7h", "20:00", 30)
	assert.True(t, errors.Is(err, ErrInvalidTimeFormat))

	_, err = NewCalendar(DefaultTimeZone, "20:00", "07:00", 30)
	assert.Error(t, err)

	_, err = NewCalendar(DefaultTimeZone, "07:00", "20:00", 0)
	assert.True(t, errors.Is(err, ErrInvalidStep))

	cal, err := NewCalendar("Europe/Paris", "08:00", "18:00", 15)
	require.NoError(t, err)
	start, end := cal.OpeningHours()
	assert.Equal(t, "08:00", start)
	assert.Equal(t, "18:00", end)
	assert.Equal(t, 15, cal.SlotMinutes())
}

func TestCalendar_Today(t *testing.T) {
	cal, err := NewCalendar("Asia/Tokyo", "07:00", "20:00", 30)
	require.NoError(t, err)
	now := time.Date(2025, 1, 3, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-04", cal.Today(now))
}
