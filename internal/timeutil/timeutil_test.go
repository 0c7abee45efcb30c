package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("18:05:09")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 18, Minute: 5, Second: 9}, got)
	assert.Equal(t, "18:05:09", got.String())

	got, err = ParseTimeOfDay("9:05:00")
	require.NoError(t, err)
	assert.Equal(t, "09:05:00", got.String())

	for _, bad := range []string{"", "18:00", "24:00:00", "12:60:00", "12:00:60", "ab:cd:ef", "-1:00:00", "123:00:00"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestCalculateDurationMinutes(t *testing.T) {
	tests := []struct {
		login, logout string
		want          int
	}{
		{"18:00:00", "20:30:00", 150},
		{"23:00:00", "02:30:00", 210},
		{"10:00:00", "10:00:00", 0},
		{"10:00:00", "09:59:00", MinutesInDay - 1},
		{"00:00:00", "23:59:59", MinutesInDay - 1},
		{"10:00:45", "10:01:10", 1},
	}

	for _, tt := range tests {
		got, err := CalculateDurationMinutes(tt.login, tt.logout)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.login, tt.logout)
		assert.GreaterOrEqual(t, got, 0)
	}

	_, err := CalculateDurationMinutes("bogus", "10:00:00")
	assert.Error(t, err)
	_, err = CalculateDurationMinutes("10:00:00", "bogus")
	assert.Error(t, err)
}

func TestDurationMinutes_NonNegativeForAllPairs(t *testing.T) {
	for in := 0; in < MinutesInDay; in += 37 {
		for out := 0; out < MinutesInDay; out += 41 {
			login := TimeOfDay{Hour: in / 60, Minute: in % 60}
			logout := TimeOfDay{Hour: out / 60, Minute: out % 60}
			d := DurationMinutes(login, logout)
			assert.GreaterOrEqual(t, d, 0)
			assert.Less(t, d, MinutesInDay)
		}
	}
}

func TestAnchor(t *testing.T) {
	now := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)

	assert.Equal(t,
		time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC),
		Anchor(now, TimeOfDay{Hour: 1}))

	assert.Equal(t,
		time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC),
		Anchor(now, TimeOfDay{Hour: 23}),
		"a time later in the day belongs to yesterday")

	assert.Equal(t, now, Anchor(now, FromTime(now)))
}

func TestElapsedMinutes(t *testing.T) {
	now := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, 150, ElapsedMinutes(now, TimeOfDay{Hour: 23}))
	assert.Equal(t, 30, ElapsedMinutes(now, TimeOfDay{Hour: 1}))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "45m", FormatDuration(45))
	assert.Equal(t, "2h", FormatDuration(120))
	assert.Equal(t, "2h 15m", FormatDuration(135))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(-time.Minute))
	assert.Equal(t, "00:04:59", FormatClock(4*time.Minute+59*time.Second+900*time.Millisecond))
	assert.Equal(t, "02:30:00", FormatClock(150*time.Minute))
	assert.Equal(t, "25:00:00", FormatClock(25*time.Hour))
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2026-03-10", DateKey(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), RoundToStart(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)))
}
