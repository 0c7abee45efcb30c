package timer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config tunes the manager. Zero values fall back to defaults.
type Config struct {
	WarningThreshold time.Duration
	PollInterval     time.Duration
	EventBuffer      int
	Now              func() time.Time
	Logger           zerolog.Logger
}

const (
	DefaultWarningThreshold = 5 * time.Minute
	DefaultPollInterval     = time.Second
	DefaultEventBuffer      = 64
)

func (c Config) withDefaults() Config {
	if c.WarningThreshold <= 0 {
		c.WarningThreshold = DefaultWarningThreshold
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = DefaultEventBuffer
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Manager owns every running countdown, keyed by session id, and publishes
// warning and expiry events on a single channel.
type Manager struct {
	cfg Config
	log zerolog.Logger

	// regMu serializes Register/Remove/StopAll so a replaced timer is fully
	// stopped before its successor starts.
	regMu sync.Mutex

	// mu guards timers only. Tick arithmetic runs outside it.
	mu     sync.RWMutex
	timers map[uint]*Timer

	events chan Event
}

// NewManager creates an empty manager.
func NewManager(cfg Config) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		cfg:    cfg,
		log:    cfg.Logger.With().Str("component", "timer").Logger(),
		timers: make(map[uint]*Timer),
		events: make(chan Event, cfg.EventBuffer),
	}
}

// Events returns the channel warning and expiry events are delivered on.
// A full channel makes the sending timer wait until the event is read or
// the timer is stopped.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Register starts a countdown for the session, replacing any timer already
// running for the same id.
func (m *Manager) Register(reg Registration) (*Timer, error) {
	t, err := newTimer(reg, m.cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to register timer: %w", err)
	}

	m.regMu.Lock()
	defer m.regMu.Unlock()

	if old := m.take(reg.SessionID); old != nil {
		old.stop()
		m.log.Debug().Uint("session_id", reg.SessionID).Msg("replaced timer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	m.mu.Lock()
	m.timers[t.sessionID] = t
	m.mu.Unlock()

	go m.run(ctx, t)

	m.log.Info().
		Uint("session_id", t.sessionID).
		Str("customer", t.customer).
		Str("system", t.system).
		Int("planned_min", t.plannedMin).
		Time("start", t.start).
		Msg("timer registered")

	return t, nil
}

// Remove stops and discards the session's timer. Unknown ids are ignored.
func (m *Manager) Remove(sessionID uint) {
	m.regMu.Lock()
	defer m.regMu.Unlock()

	t := m.take(sessionID)
	if t == nil {
		return
	}
	t.stop()
	m.log.Info().Uint("session_id", sessionID).Msg("timer removed")
}

// StopAll stops every timer and waits for each polling loop to exit.
func (m *Manager) StopAll() {
	m.regMu.Lock()
	defer m.regMu.Unlock()

	m.mu.Lock()
	timers := m.timers
	m.timers = make(map[uint]*Timer)
	m.mu.Unlock()

	for _, t := range timers {
		t.stop()
	}
	if len(timers) > 0 {
		m.log.Info().Int("count", len(timers)).Msg("all timers stopped")
	}
}

func (m *Manager) take(sessionID uint) *Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timers[sessionID]
	if !ok {
		return nil
	}
	delete(m.timers, sessionID)
	return t
}

// Get returns the session's timer, if one is registered.
func (m *Manager) Get(sessionID uint) (*Timer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.timers[sessionID]
	return t, ok
}

// Remaining returns the session's time left, or false when no timer exists.
func (m *Manager) Remaining(sessionID uint) (time.Duration, bool) {
	t, ok := m.Get(sessionID)
	if !ok {
		return 0, false
	}
	return t.Remaining(), true
}

// RemainingFormatted returns the time left as HH:MM:SS.
func (m *Manager) RemainingFormatted(sessionID uint) (string, bool) {
	t, ok := m.Get(sessionID)
	if !ok {
		return "", false
	}
	return t.RemainingFormatted(), true
}

// Snapshots returns every timer's current state ordered by session id.
func (m *Manager) Snapshots() []Snapshot {
	m.mu.RLock()
	timers := make([]*Timer, 0, len(m.timers))
	for _, t := range m.timers {
		timers = append(timers, t)
	}
	m.mu.RUnlock()

	out := make([]Snapshot, 0, len(timers))
	for _, t := range timers {
		out = append(out, t.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Len returns the number of registered timers.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.timers)
}

// run polls the timer until it expires or is stopped. An expired timer
// stays in the registry until removed.
func (m *Manager) run(ctx context.Context, t *Timer) {
	defer close(t.done)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if m.tick(ctx, t) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick evaluates one poll and reports whether the loop is finished.
func (m *Manager) tick(ctx context.Context, t *Timer) (finished bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().
				Uint("session_id", t.sessionID).
				Interface("panic", r).
				Msg("timer tick failed")
			finished = false
		}
	}()

	now := m.cfg.Now()
	remaining := t.remainingAt(now)

	if remaining <= 0 {
		if t.expiredFired.CompareAndSwap(false, true) {
			m.log.Warn().Uint("session_id", t.sessionID).Msg("session time expired")
			m.emit(ctx, t.event(EventExpired, now))
		}
		return true
	}

	if remaining <= m.cfg.WarningThreshold && t.warningFired.CompareAndSwap(false, true) {
		m.log.Info().
			Uint("session_id", t.sessionID).
			Dur("remaining", remaining).
			Msg("session time warning")
		m.emit(ctx, t.event(EventWarning, now))
	}
	return false
}

func (m *Manager) emit(ctx context.Context, ev Event) {
	select {
	case m.events <- ev:
	case <-ctx.Done():
	}
}
