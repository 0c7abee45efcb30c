package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2026, 3, 10, 18, 42, 7, 0, time.UTC)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"14:30", "14:30:00"},
		{"14:30:05", "14:30:05"},
		{"9:05", "09:05:00"},
		{"2:30 PM", "14:30:00"},
		{"2:30pm", "14:30:00"},
		{"12:05 AM", "00:05:00"},
		{"12:00 PM", "12:00:00"},
		{"11:59:59 pm", "23:59:59"},
		{"now", "18:42:07"},
		{" NOW ", "18:42:07"},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input, refNow)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got.String(), tt.input)
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, input := range []string{"", "25:00", "13:00 PM", "0:30 AM", "12:75", "noon", "14"} {
		_, err := ParseClock(input, refNow)
		assert.Error(t, err, input)
	}
}

func TestParseDate(t *testing.T) {
	tests := map[string]string{
		"":           "2026-03-10",
		"today":      "2026-03-10",
		"Yesterday":  "2026-03-09",
		"2025-12-31": "2025-12-31",
		"15/12/2024": "2024-12-15",
		"1/2/2026":   "2026-02-01",
	}
	for input, want := range tests {
		got, err := ParseDate(input, refNow)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseDate("31/02/2026", refNow)
	assert.Error(t, err)
	_, err = ParseDate("next week", refNow)
	assert.Error(t, err)
}

func TestParseHours(t *testing.T) {
	tests := map[string]float64{
		"2":         2,
		"1.5":       1.5,
		"2h":        2,
		"1.5 hours": 1.5,
		"90m":       1.5,
		"1h30m":     1.5,
		"24":        24,
	}
	for input, want := range tests {
		got, err := ParseHours(input)
		require.NoError(t, err, input)
		assert.InDelta(t, want, got, 1e-9, input)
	}

	for _, input := range []string{"", "0", "25", "-1", "abc", "0m"} {
		_, err := ParseHours(input)
		assert.Error(t, err, input)
	}
}

func TestHoursToMinutes(t *testing.T) {
	assert.Equal(t, 90, HoursToMinutes(1.5))
	assert.Equal(t, 69, HoursToMinutes(1.15))
	assert.Equal(t, 1440, HoursToMinutes(24))
}

func TestParseAmount(t *testing.T) {
	tests := map[string]float64{
		"":         0,
		"50":       50,
		"10.50":    10.5,
		"₹1,250":   1250,
		"$ 25.5":   25.5,
		"Rs. 200":  200,
	}
	for input, want := range tests {
		got, err := ParseAmount(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"-5", "ten", "1.2.3"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, input)
	}
}

func TestParseWalkIn(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  WalkIn
	}{
		{
			name:  "all tokens",
			input: "Ravi Kumar @PS-5 2.5h +40 online",
			want:  WalkIn{Customer: "Ravi Kumar", System: "PS-5", Hours: 2.5, Payment: "Online", Extra: 40, Errors: []string{}},
		},
		{
			name:  "defaults",
			input: "@PC-01 Asha",
			want:  WalkIn{Customer: "Asha", System: "PC-01", Hours: 1, Errors: []string{}},
		},
		{
			name:  "minutes and upi",
			input: "Meera 90m UPI @VR-1",
			want:  WalkIn{Customer: "Meera", System: "VR-1", Hours: 1.5, Payment: "Online", Errors: []string{}},
		},
		{
			name:  "hours and minutes",
			input: "Dev @PC-02 1h30m mixed",
			want:  WalkIn{Customer: "Dev", System: "PC-02", Hours: 1.5, Payment: "Mixed", Errors: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWalkIn(tt.input))
		})
	}
}

func TestParseWalkIn_Errors(t *testing.T) {
	got := ParseWalkIn("2h +abc")
	assert.Len(t, got.Errors, 3)
	assert.Empty(t, got.Customer)
	assert.Empty(t, got.System)
	assert.Zero(t, got.Extra)
}
