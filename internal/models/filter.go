package models

// SessionFilter selects sessions. Zero-valued fields do not constrain the query.
type SessionFilter struct {
	States        []State
	Date          string // exact YYYY-MM-DD
	From          string // inclusive YYYY-MM-DD
	To            string // inclusive YYYY-MM-DD
	PaymentStatus PaymentStatus
	SystemID      *uint
	Limit         int
}
