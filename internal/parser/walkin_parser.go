package parser

import (
	"regexp"
	"strings"
)

// WalkIn is a session request parsed from one line of quick-entry text.
type WalkIn struct {
	Customer string
	System   string
	Hours    float64
	Payment  string
	Extra    float64
	Errors   []string
}

var (
	systemTokenRegex   = regexp.MustCompile(`@([A-Za-z0-9_-]+)`)
	extraTokenRegex    = regexp.MustCompile(`\+(\S+)`)
	durationTokenRegex = regexp.MustCompile(`(?i)(?:^|\s)(\d+(?:\.\d+)?h(?:\d+m)?|\d+m)(?:\s|$)`)
	paymentTokenRegex  = regexp.MustCompile(`(?i)(?:^|\s)(cash|online|upi|card|mixed)(?:\s|$)`)
)

// ParseWalkIn extracts session details from quick-entry text.
// Syntax: "Customer name @SYSTEM 2h +40 online"
//   - @SYSTEM     system name
//   - 2h, 1.5h, 90m, 1h30m   prepaid time (default 1h)
//   - +40         extra charges
//   - cash|online|upi|card|mixed   payment method (default cash)
//
// Whatever is left becomes the customer name.
func ParseWalkIn(input string) WalkIn {
	result := WalkIn{
		Hours:  1,
		Errors: []string{},
	}

	if m := systemTokenRegex.FindStringSubmatch(input); len(m) > 1 {
		result.System = m[1]
		input = systemTokenRegex.ReplaceAllString(input, "")
	} else {
		result.Errors = append(result.Errors, "Missing system. Add one like @PS-5")
	}

	if m := extraTokenRegex.FindStringSubmatch(input); len(m) > 1 {
		extra, err := ParseAmount(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid extra charge '"+m[1]+"'")
		} else {
			result.Extra = extra
		}
		input = extraTokenRegex.ReplaceAllString(input, "")
	}

	if m := durationTokenRegex.FindStringSubmatch(input); len(m) > 1 {
		hours, err := ParseHours(m[1])
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Hours = hours
		}
		input = durationTokenRegex.ReplaceAllString(input, " ")
	}

	if m := paymentTokenRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Payment = normalizePaymentWord(m[1])
		input = paymentTokenRegex.ReplaceAllString(input, " ")
	}

	result.Customer = strings.Join(strings.Fields(input), " ")
	if result.Customer == "" {
		result.Errors = append(result.Errors, "Missing customer name")
	}

	return result
}

func normalizePaymentWord(word string) string {
	switch strings.ToLower(word) {
	case "online", "upi", "card":
		return "Online"
	case "mixed":
		return "Mixed"
	default:
		return "Cash"
	}
}
