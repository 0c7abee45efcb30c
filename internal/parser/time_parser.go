package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/cafedesk/internal/timeutil"
)

var (
	clock12Regex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AaPp][Mm])$`)
	clock24Regex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
)

// ParseClock parses a time of day typed by an operator.
// Supported formats:
// - 24-hour: "14:30", "14:30:05", "9:05"
// - 12-hour: "2:30 PM", "2:30pm", "12:05:30 AM"
// - "now" (uses the supplied clock)
func ParseClock(input string, now time.Time) (timeutil.TimeOfDay, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return timeutil.TimeOfDay{}, fmt.Errorf("time cannot be empty")
	}

	if strings.EqualFold(input, "now") {
		return timeutil.FromTime(now), nil
	}

	if t, err := parse12Hour(input); err == nil {
		return t, nil
	}

	if t, err := parse24Hour(input); err == nil {
		return t, nil
	}

	return timeutil.TimeOfDay{}, fmt.Errorf("invalid time format. Use: HH:MM, HH:MM:SS, or H:MM AM/PM (e.g., 2:30 PM)")
}

// parse12Hour parses h:MM[:SS] AM/PM
func parse12Hour(input string) (timeutil.TimeOfDay, error) {
	matches := clock12Regex.FindStringSubmatch(input)
	if len(matches) != 5 {
		return timeutil.TimeOfDay{}, fmt.Errorf("invalid 12-hour format")
	}

	hour, _ := strconv.Atoi(matches[1])
	if hour < 1 || hour > 12 {
		return timeutil.TimeOfDay{}, fmt.Errorf("hour must be between 1 and 12")
	}

	// 12 AM is midnight, 12 PM is noon
	hour %= 12
	if strings.EqualFold(matches[4], "pm") {
		hour += 12
	}

	return buildClock(hour, matches[2], matches[3])
}

// parse24Hour parses H:MM or HH:MM:SS
func parse24Hour(input string) (timeutil.TimeOfDay, error) {
	matches := clock24Regex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return timeutil.TimeOfDay{}, fmt.Errorf("invalid 24-hour format")
	}

	hour, _ := strconv.Atoi(matches[1])
	return buildClock(hour, matches[2], matches[3])
}

func buildClock(hour int, minute, second string) (timeutil.TimeOfDay, error) {
	t := timeutil.TimeOfDay{Hour: hour}
	t.Minute, _ = strconv.Atoi(minute)
	if second != "" {
		t.Second, _ = strconv.Atoi(second)
	}
	if err := t.Validate(); err != nil {
		return timeutil.TimeOfDay{}, err
	}
	return t, nil
}

// ParseDate normalizes a session date to YYYY-MM-DD.
// Supported formats:
// - "today", "yesterday"
// - yyyy-mm-dd (e.g., "2024-12-15")
// - dd/mm/yyyy (e.g., "15/12/2024")
func ParseDate(input string, now time.Time) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "", "today":
		return timeutil.DateKey(now), nil
	case "yesterday":
		return timeutil.DateKey(now.AddDate(0, 0, -1)), nil
	}

	if d, err := time.ParseInLocation(time.DateOnly, input, now.Location()); err == nil {
		return timeutil.DateKey(d), nil
	}

	if d, err := time.ParseInLocation("2/1/2006", input, now.Location()); err == nil {
		return timeutil.DateKey(d), nil
	}

	return "", fmt.Errorf("invalid date format. Use: today, yesterday, yyyy-mm-dd, or dd/mm/yyyy")
}
