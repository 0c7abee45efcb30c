// Package timer keeps one countdown per active session and reports when a
// session is about to run out and when it has run out.
//
// Remaining time is always recomputed from the wall clock and the session's
// start instant; nothing is accumulated per tick. A timer therefore stays
// correct across missed ticks, suspend/resume and process restarts, as long
// as the login time it was registered with is durable.
package timer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/balkashynov/cafedesk/internal/timeutil"
)

// Registration describes the session a timer counts down for. Labels are
// copied at registration and not kept in sync with the session record.
type Registration struct {
	SessionID          uint
	Customer           string
	System             string
	PlannedDurationMin int
	LoginTime          string // HH:MM:SS
}

// Timer is the in-memory countdown for one active session.
type Timer struct {
	sessionID  uint
	customer   string
	system     string
	plannedMin int
	start      time.Time
	now        func() time.Time

	warningFired atomic.Bool
	expiredFired atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}
}

func newTimer(reg Registration, now func() time.Time) (*Timer, error) {
	if reg.PlannedDurationMin <= 0 {
		return nil, fmt.Errorf("session #%d: planned duration must be positive", reg.SessionID)
	}

	login, err := timeutil.ParseTimeOfDay(reg.LoginTime)
	if err != nil {
		return nil, fmt.Errorf("session #%d: %w", reg.SessionID, err)
	}

	return &Timer{
		sessionID:  reg.SessionID,
		customer:   reg.Customer,
		system:     reg.System,
		plannedMin: reg.PlannedDurationMin,
		start:      timeutil.Anchor(now(), login),
		now:        now,
		done:       make(chan struct{}),
	}, nil
}

// SessionID returns the id of the session being timed.
func (t *Timer) SessionID() uint { return t.sessionID }

// Customer returns the customer name captured at registration.
func (t *Timer) Customer() string { return t.customer }

// System returns the system name captured at registration.
func (t *Timer) System() string { return t.system }

// PlannedMinutes returns the prepaid duration in minutes.
func (t *Timer) PlannedMinutes() int { return t.plannedMin }

// StartTime returns the instant the countdown is measured from.
func (t *Timer) StartTime() time.Time { return t.start }

// WarningFired reports whether the warning event has been sent.
func (t *Timer) WarningFired() bool { return t.warningFired.Load() }

// ExpiredFired reports whether the expired event has been sent.
func (t *Timer) ExpiredFired() bool { return t.expiredFired.Load() }

// Remaining returns the planned time left, clamped at zero.
func (t *Timer) Remaining() time.Duration {
	return t.remainingAt(t.now())
}

func (t *Timer) remainingAt(now time.Time) time.Duration {
	planned := time.Duration(t.plannedMin) * time.Minute
	remaining := planned - now.Sub(t.start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingMinutes returns whole minutes left, rounded down.
func (t *Timer) RemainingMinutes() int {
	return int(t.Remaining() / time.Minute)
}

// RemainingFormatted returns the time left as HH:MM:SS.
func (t *Timer) RemainingFormatted() string {
	return timeutil.FormatClock(t.Remaining())
}

// Snapshot is a point-in-time copy of a timer for display.
type Snapshot struct {
	SessionID    uint
	Customer     string
	System       string
	PlannedMin   int
	StartTime    time.Time
	Remaining    time.Duration
	WarningFired bool
	ExpiredFired bool
}

// Snapshot captures the timer's current state.
func (t *Timer) Snapshot() Snapshot {
	return Snapshot{
		SessionID:    t.sessionID,
		Customer:     t.customer,
		System:       t.system,
		PlannedMin:   t.plannedMin,
		StartTime:    t.start,
		Remaining:    t.Remaining(),
		WarningFired: t.WarningFired(),
		ExpiredFired: t.ExpiredFired(),
	}
}

// stop cancels the polling loop and waits for it to exit.
func (t *Timer) stop() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
}
