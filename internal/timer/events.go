package timer

import (
	"fmt"
	"time"
)

// EventKind identifies a one-shot timer notification.
type EventKind int

const (
	// EventWarning fires once when the remaining time drops to the warning threshold.
	EventWarning EventKind = iota + 1
	// EventExpired fires once when the remaining time reaches zero.
	EventExpired
)

func (k EventKind) String() string {
	switch k {
	case EventWarning:
		return "warning"
	case EventExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Event is delivered on the manager's event channel.
type Event struct {
	Kind       EventKind
	SessionID  uint
	Customer   string
	System     string
	PlannedMin int
	Remaining  time.Duration
	At         time.Time
}

// Message renders the notification text shown to the operator.
func (e Event) Message() string {
	switch e.Kind {
	case EventWarning:
		secs := int(e.Remaining / time.Second)
		return fmt.Sprintf("WARNING: %s (%s) has %dm %ds remaining!", e.Customer, e.System, secs/60, secs%60)
	case EventExpired:
		return fmt.Sprintf("TIME UP: %s (%s) has exceeded their %d minute session!", e.Customer, e.System, e.PlannedMin)
	default:
		return fmt.Sprintf("%s (%s): %s", e.Customer, e.System, e.Kind)
	}
}

func (t *Timer) event(kind EventKind, now time.Time) Event {
	return Event{
		Kind:       kind,
		SessionID:  t.sessionID,
		Customer:   t.customer,
		System:     t.system,
		PlannedMin: t.plannedMin,
		Remaining:  t.remainingAt(now),
		At:         now,
	}
}
