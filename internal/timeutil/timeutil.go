// Package timeutil converts between wall-clock and time-of-day values and
// computes session durations that may cross midnight.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesInDay    = 24 * 60
	SecondsInDay    = MinutesInDay * 60
	minutesInAnHour = 60
)

// TimeOfDay is a clock reading with no date component.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses the stored HH:MM:SS form. Single-digit fields are
// accepted ("9:05:00").
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM:SS", s)
	}

	var vals [3]int
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM:SS", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM:SS", s)
		}
		vals[i] = n
	}

	t := TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}
	if err := t.Validate(); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t, nil
}

// Validate checks field ranges.
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("hour must be between 0 and 23")
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute must be between 0 and 59")
	}
	if t.Second < 0 || t.Second > 59 {
		return fmt.Errorf("second must be between 0 and 59")
	}
	return nil
}

// FromTime extracts the time of day from t in t's location.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Minutes returns whole minutes since midnight; seconds are dropped.
func (t TimeOfDay) Minutes() int {
	return t.Hour*minutesInAnHour + t.Minute
}

// Seconds returns seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Minutes()*60 + t.Second
}

// DurationMinutes returns the minutes from login to logout. A logout earlier
// in the day than the login means midnight was crossed. Sessions longer than
// a day cannot be represented.
func DurationMinutes(login, logout TimeOfDay) int {
	in, out := login.Minutes(), logout.Minutes()
	if out >= in {
		return out - in
	}
	return (MinutesInDay - in) + out
}

// CalculateDurationMinutes is DurationMinutes over stored HH:MM:SS strings.
func CalculateDurationMinutes(login, logout string) (int, error) {
	in, err := ParseTimeOfDay(login)
	if err != nil {
		return 0, err
	}
	out, err := ParseTimeOfDay(logout)
	if err != nil {
		return 0, err
	}
	return DurationMinutes(in, out), nil
}

// ElapsedMinutes returns the minutes between login and now, wrapping at midnight.
func ElapsedMinutes(now time.Time, login TimeOfDay) int {
	return DurationMinutes(login, FromTime(now))
}

// Anchor resolves a time of day to the most recent instant at or before now
// with that reading: today if it has already passed, otherwise yesterday.
func Anchor(now time.Time, t TimeOfDay) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, t.Second, 0, now.Location())
	if at.After(now) {
		at = at.AddDate(0, 0, -1)
	}
	return at
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	return val / minutesInAnHour, val % minutesInAnHour
}

// FormatDuration renders minutes as "2h 15m", "2h" or "15m".
func FormatDuration(minutes int) string {
	hrs, mins := MinsToHoursAndMins(minutes)
	switch {
	case hrs == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hrs)
	default:
		return fmt.Sprintf("%dh %dm", hrs, mins)
	}
}

// FormatClock renders d as HH:MM:SS, truncating to whole seconds.
// Negative durations render as 00:00:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateKey formats t as the YYYY-MM-DD key sessions are filed under.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
