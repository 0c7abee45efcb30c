package models

import (
	"time"
)

// State is the lifecycle state of a prepaid session.
type State string

const (
	StatePlanned   State = "PLANNED"
	StateActive    State = "ACTIVE"
	StateCompleted State = "COMPLETED"
)

// Valid reports whether s is one of the known lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StatePlanned, StateActive, StateCompleted:
		return true
	}
	return false
}

// Next returns the only state s may move to. Completed is terminal.
func (s State) Next() (State, bool) {
	switch s {
	case StatePlanned:
		return StateActive, true
	case StateActive:
		return StateCompleted, true
	case StateCompleted:
		return "", false
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to target is a legal forward step.
func (s State) CanTransitionTo(target State) bool {
	next, ok := s.Next()
	return ok && next == target
}

// PaymentMethod is how the customer prepaid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentOnline PaymentMethod = "Online"
	PaymentMixed  PaymentMethod = "Mixed"
)

// PaymentMethods lists the accepted payment methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentOnline, PaymentMixed}

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentOnline, PaymentMixed:
		return true
	}
	return false
}

// PaymentStatus tracks settlement of the session's amount due.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "PAID"
	PaymentPending  PaymentStatus = "Pending"
	PaymentRefunded PaymentStatus = "Refunded"
)

// Valid reports whether p is a known payment status.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPaid, PaymentPending, PaymentRefunded:
		return true
	}
	return false
}

// Column names used when updating a session by id.
const (
	FieldState             = "session_state"
	FieldLoginTime         = "login_time"
	FieldLogoutTime        = "logout_time"
	FieldActualDurationMin = "actual_duration_min"
	FieldPlannedDuration   = "planned_duration_min"
	FieldExtraCharges      = "extra_charges"
	FieldTotalDue          = "total_due"
	FieldPaymentStatus     = "payment_status"
	FieldNotes             = "notes"
)

// Fields is a partial update keyed by column name.
type Fields map[string]any

// Session represents one prepaid rental of a system by a customer
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date         string `gorm:"not null;index" json:"date"` // YYYY-MM-DD
	CustomerName string `gorm:"size:100;not null" json:"customer_name"`

	// SystemID is cleared when the system is deleted; history is kept.
	SystemID *uint   `gorm:"index" json:"system_id"`
	System   *System `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"system,omitempty"`

	State              State         `gorm:"column:session_state;not null;default:PLANNED;index" json:"session_state"`
	PlannedDurationMin int           `gorm:"not null" json:"planned_duration_min"`
	HourlyRate         float64       `gorm:"not null" json:"hourly_rate"`
	PaymentMethod      PaymentMethod `gorm:"not null" json:"payment_method"`
	PaymentStatus      PaymentStatus `gorm:"not null;default:PAID" json:"payment_status"`

	LoginTime         *string `json:"login_time"`  // HH:MM:SS
	LogoutTime        *string `json:"logout_time"` // HH:MM:SS
	ActualDurationMin *int    `json:"actual_duration_min"`

	PaidAmount   float64 `json:"paid_amount"`
	ExtraCharges float64 `json:"extra_charges"`
	TotalDue     float64 `json:"total_due"`
	Notes        string  `gorm:"size:500" json:"notes"`
}

// SystemName returns the display name of the session's system.
func (s *Session) SystemName() string {
	if s.System == nil {
		return "(removed)"
	}
	return s.System.Name
}

// IsActive reports whether the session is currently running.
func (s *Session) IsActive() bool {
	return s.State == StateActive
}
