package models

import "time"

// Availability of a rentable system.
type Availability string

const (
	Available Availability = "Available"
	InUse     Availability = "In Use"
)

// Valid reports whether a is a known availability value.
func (a Availability) Valid() bool {
	return a == Available || a == InUse
}

// System represents a rentable workstation (console or PC)
type System struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name              string       `gorm:"column:system_name;unique;not null" json:"system_name"`
	Type              string       `gorm:"column:system_type;not null;default:Console" json:"system_type"`
	DefaultHourlyRate float64      `gorm:"not null;default:100" json:"default_hourly_rate"`
	Availability      Availability `gorm:"not null;default:Available" json:"availability"`
}
