package session

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/balkashynov/cafedesk/internal/models"
)

const (
	MaxCustomerNameLen = 100
	MaxNotesLen        = 500
	MaxPlannedMinutes  = 24 * 60
	MaxHourlyRate      = 10000
	MaxExtensionHours  = 24
)

// MaxLoginAge bounds how far back a start can be recorded. Anything older is
// taken to be a clock time later today.
const MaxLoginAge = 12 * time.Hour

var customerNameRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-']+$`)

// CreateRequest holds the data needed to plan a prepaid session
type CreateRequest struct {
	Date               string // YYYY-MM-DD; empty means today
	CustomerName       string
	SystemID           uint
	PlannedDurationMin int
	HourlyRate         float64
	PaymentMethod      models.PaymentMethod
	ExtraCharges       float64
	Notes              string
}

// EndRequest holds the data collected when a session is closed
type EndRequest struct {
	LogoutTime   string // HH:MM:SS
	ExtraCharges float64
	Notes        string
}

// normalize trims free-text fields and fills the default date.
func (r CreateRequest) normalize(now time.Time) CreateRequest {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.Notes = strings.TrimSpace(r.Notes)
	r.Date = strings.TrimSpace(r.Date)
	if r.Date == "" {
		r.Date = now.Format(time.DateOnly)
	}
	return r
}

// validate checks every field before anything touches the store.
func (r CreateRequest) validate() error {
	const op = "create session"

	if err := validateCustomerName(op, r.CustomerName); err != nil {
		return err
	}
	if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
		return validationErr(op, "date %q must be in YYYY-MM-DD format", r.Date)
	}
	if r.SystemID == 0 {
		return validationErr(op, "system id must be positive")
	}
	if r.PlannedDurationMin <= 0 || r.PlannedDurationMin > MaxPlannedMinutes {
		return validationErr(op, "planned duration must be between 1 and %d minutes", MaxPlannedMinutes)
	}
	if !finite(r.HourlyRate) || r.HourlyRate <= 0 {
		return validationErr(op, "hourly rate must be greater than 0")
	}
	if r.HourlyRate > MaxHourlyRate {
		return validationErr(op, "hourly rate cannot exceed %d", MaxHourlyRate)
	}
	if !r.PaymentMethod.Valid() {
		return validationErr(op, "payment method %q must be one of Cash, Online, Mixed", r.PaymentMethod)
	}
	if err := validateExtraCharges(op, r.ExtraCharges); err != nil {
		return err
	}
	return validateNotes(op, r.Notes)
}

func (r EndRequest) validate() error {
	const op = "end session"

	if err := validateExtraCharges(op, r.ExtraCharges); err != nil {
		return err
	}
	return validateNotes(op, r.Notes)
}

func validateCustomerName(op, name string) error {
	if name == "" {
		return validationErr(op, "customer name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxCustomerNameLen {
		return validationErr(op, "customer name cannot exceed %d characters", MaxCustomerNameLen)
	}
	if !customerNameRegex.MatchString(name) {
		return validationErr(op, "customer name contains invalid characters; use letters, numbers, spaces, hyphens, or apostrophes")
	}
	return nil
}

func validateExtraCharges(op string, amount float64) error {
	if !finite(amount) || amount < 0 {
		return validationErr(op, "extra charges cannot be negative")
	}
	return nil
}

func validateNotes(op, notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLen {
		return validationErr(op, "notes cannot exceed %d characters", MaxNotesLen)
	}
	return nil
}

func validateExtension(hours float64) error {
	if !finite(hours) || hours <= 0 || hours > MaxExtensionHours {
		return validationErr("extend session", "extra hours must be greater than 0 and at most %d", MaxExtensionHours)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
