package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	plainNumberRegex = regexp.MustCompile(`^\d+(\.\d+)?$`)
	hoursSuffixRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours)$`)
	currencyReplacer = strings.NewReplacer("₹", "", "$", "", "€", "", "£", "", ",", "", "Rs.", "", "Rs", "")
)

// ParseHours parses a session length or extension into hours.
// Supported formats:
// - plain hours (e.g., "2", "1.5")
// - hours with unit (e.g., "2h", "1.5 hours")
// - Go durations (e.g., "90m", "1h30m")
func ParseHours(input string) (float64, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("hours cannot be empty")
	}

	var hours float64
	switch {
	case plainNumberRegex.MatchString(input):
		hours, _ = strconv.ParseFloat(input, 64)
	case hoursSuffixRegex.MatchString(input):
		hours, _ = strconv.ParseFloat(hoursSuffixRegex.FindStringSubmatch(input)[1], 64)
	default:
		d, err := time.ParseDuration(input)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q. Use: 1.5, 2h, 90m, or 1h30m", input)
		}
		hours = d.Hours()
	}

	if hours <= 0 {
		return 0, fmt.Errorf("duration must be greater than 0")
	}
	if hours > 24 {
		return 0, fmt.Errorf("duration cannot exceed 24 hours")
	}

	return hours, nil
}

// HoursToMinutes converts fractional hours to whole minutes, rounding to nearest.
func HoursToMinutes(hours float64) int {
	return int(math.Round(hours * 60))
}

// ParseAmount parses a money amount, ignoring currency symbols and thousands separators.
func ParseAmount(input string) (float64, error) {
	cleaned := strings.TrimSpace(currencyReplacer.Replace(strings.TrimSpace(input)))
	if cleaned == "" {
		return 0, nil
	}

	if !plainNumberRegex.MatchString(cleaned) {
		return 0, fmt.Errorf("invalid amount %q. Use a number like 50 or 10.50", input)
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", input)
	}

	return amount, nil
}
