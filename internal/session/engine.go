// Package session implements the prepaid session lifecycle: planning,
// activation, extension and completion, with the billing applied at each
// step and the countdown timer kept in step with the session record.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/balkashynov/cafedesk/internal/billing"
	"github.com/balkashynov/cafedesk/internal/models"
	"github.com/balkashynov/cafedesk/internal/timer"
	"github.com/balkashynov/cafedesk/internal/timeutil"
)

// Store is the persistence the engine needs. Calls made with the context
// handed to Atomically's callback must join that transaction.
type Store interface {
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error

	InsertSession(ctx context.Context, session *models.Session) (uint, error)
	FindSession(ctx context.Context, id uint) (*models.Session, error)
	FindSessions(ctx context.Context, filter models.SessionFilter) ([]models.Session, error)
	UpdateSession(ctx context.Context, id uint, fields models.Fields) (int64, error)

	FindSystem(ctx context.Context, id uint) (*models.System, error)
	SetSystemAvailability(ctx context.Context, id uint, availability models.Availability) (int64, error)
}

// Timers is the countdown registry the engine keeps in step with ACTIVE sessions.
type Timers interface {
	Register(reg timer.Registration) (*timer.Timer, error)
	Remove(sessionID uint)
}

type nopTimers struct{}

func (nopTimers) Register(timer.Registration) (*timer.Timer, error) { return nil, nil }
func (nopTimers) Remove(uint) {}

// Engine drives sessions through PLANNED -> ACTIVE -> COMPLETED.
type Engine struct {
	store  Store
	timers Timers
	now    func() time.Time
	log    zerolog.Logger

	// mu serializes transitions so a read-check-write never interleaves.
	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimers attaches the countdown registry.
func WithTimers(t Timers) Option {
	return func(e *Engine) {
		if t != nil {
			e.timers = t
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l.With().Str("component", "session").Logger()
	}
}

// NewEngine creates an engine on top of store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		timers: nopTimers{},
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreatePrepaidSession plans a new session and records the upfront payment.
// System availability is left untouched until the session starts.
func (e *Engine) CreatePrepaidSession(ctx context.Context, req CreateRequest) (uint, error) {
	const op = "create session"

	req = req.normalize(e.now())
	if err := req.validate(); err != nil {
		e.log.Warn().Err(err).Msg("rejected session")
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	system, err := e.store.FindSystem(ctx, req.SystemID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if system == nil {
		return 0, validationErr(op, "system #%d does not exist", req.SystemID)
	}

	paid := billing.CalculateBill(req.PlannedDurationMin, req.HourlyRate, req.ExtraCharges)
	sysID := system.ID
	record := &models.Session{
		Date:               req.Date,
		CustomerName:       req.CustomerName,
		SystemID:           &sysID,
		State:              models.StatePlanned,
		PlannedDurationMin: req.PlannedDurationMin,
		HourlyRate:         req.HourlyRate,
		PaymentMethod:      req.PaymentMethod,
		PaymentStatus:      models.PaymentPaid,
		PaidAmount:         paid,
		ExtraCharges:       req.ExtraCharges,
		TotalDue:           paid,
		Notes:              req.Notes,
	}

	id, err := e.store.InsertSession(ctx, record)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	e.log.Info().
		Uint("session_id", id).
		Str("customer", record.CustomerName).
		Str("system", system.Name).
		Int("planned_min", record.PlannedDurationMin).
		Float64("paid", paid).
		Msg("session planned")

	return id, nil
}

// StartSession activates a planned session at loginTime (HH:MM:SS), marks
// its system in use and starts the countdown.
func (e *Engine) StartSession(ctx context.Context, id uint, loginTime string) error {
	const op = "start session"

	login, err := timeutil.ParseTimeOfDay(strings.TrimSpace(loginTime))
	if err != nil {
		return validationErr(op, "login time: %v", err)
	}
	// A login time that has not happened yet today anchors to yesterday.
	now := e.now()
	if now.Sub(timeutil.Anchor(now, login)) >= MaxLoginAge {
		return validationErr(op, "login time %s is later than the current time %s", login, timeutil.FromTime(now))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var started *models.Session
	err = e.store.Atomically(ctx, func(ctx context.Context) error {
		s, err := e.load(ctx, op, id)
		if err != nil {
			return err
		}
		if !s.State.CanTransitionTo(models.StateActive) {
			return stateErr(op, "session #%d is %s, only PLANNED sessions can be started", id, s.State)
		}

		if _, err := e.store.UpdateSession(ctx, id, models.Fields{
			models.FieldState:     models.StateActive,
			models.FieldLoginTime: login.String(),
		}); err != nil {
			return err
		}
		if err := e.setAvailability(ctx, s, models.InUse); err != nil {
			return err
		}

		s.State = models.StateActive
		loginStr := login.String()
		s.LoginTime = &loginStr
		started = s
		return nil
	})
	if err != nil {
		return e.failed(op, id, err)
	}

	e.register(started)

	e.log.Info().
		Uint("session_id", id).
		Str("login", login.String()).
		Msg("session started")
	return nil
}

// EndSession completes an active session. The prepaid amount is kept even
// when the customer leaves early; extra charges are added on top.
func (e *Engine) EndSession(ctx context.Context, id uint, req EndRequest) error {
	const op = "end session"

	req.Notes = strings.TrimSpace(req.Notes)
	if err := req.validate(); err != nil {
		return err
	}
	logout, err := timeutil.ParseTimeOfDay(strings.TrimSpace(req.LogoutTime))
	if err != nil {
		return validationErr(op, "logout time: %v", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var duration int
	err = e.store.Atomically(ctx, func(ctx context.Context) error {
		s, err := e.load(ctx, op, id)
		if err != nil {
			return err
		}
		if !s.State.CanTransitionTo(models.StateCompleted) {
			return stateErr(op, "session #%d is %s, only ACTIVE sessions can be ended", id, s.State)
		}
		if s.LoginTime == nil {
			return stateErr(op, "session #%d has no login time", id)
		}

		login, err := timeutil.ParseTimeOfDay(*s.LoginTime)
		if err != nil {
			return fmt.Errorf("stored login time: %w", err)
		}
		duration = timeutil.DurationMinutes(login, logout)
		if duration <= 0 {
			return newError(KindDuration, op, "logout %s must be after login %s", logout, login)
		}

		fields := models.Fields{
			models.FieldState:             models.StateCompleted,
			models.FieldLogoutTime:        logout.String(),
			models.FieldActualDurationMin: duration,
			models.FieldExtraCharges:      billing.Add(s.ExtraCharges, req.ExtraCharges),
			models.FieldTotalDue:          billing.Add(s.TotalDue, req.ExtraCharges),
		}
		if req.Notes != "" {
			fields[models.FieldNotes] = req.Notes
		}
		if _, err := e.store.UpdateSession(ctx, id, fields); err != nil {
			return err
		}
		return e.setAvailability(ctx, s, models.Available)
	})
	if err != nil {
		return e.failed(op, id, err)
	}

	e.timers.Remove(id)

	e.log.Info().
		Uint("session_id", id).
		Str("logout", logout.String()).
		Int("actual_min", duration).
		Float64("extra", req.ExtraCharges).
		Msg("session ended")
	return nil
}

// ExtendSession adds extraHours of prepaid play to an active session and
// restarts its countdown with the longer duration.
func (e *Engine) ExtendSession(ctx context.Context, id uint, extraHours float64) error {
	const op = "extend session"

	if err := validateExtension(extraHours); err != nil {
		return err
	}
	extraMin := int(math.Round(extraHours * 60))
	if extraMin == 0 {
		return validationErr(op, "extension of %gh is less than a minute", extraHours)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.load(ctx, op, id)
	if err != nil {
		return e.failed(op, id, err)
	}
	if s.State != models.StateActive {
		return e.failed(op, id, stateErr(op, "session #%d is %s, only ACTIVE sessions can be extended", id, s.State))
	}

	planned := s.PlannedDurationMin + extraMin
	if planned > MaxPlannedMinutes {
		return e.failed(op, id, validationErr(op, "session #%d would run %d minutes, more than the %d minute limit", id, planned, MaxPlannedMinutes))
	}

	// The old timer goes first so it cannot warn about the old duration
	// once the longer one is recorded.
	e.timers.Remove(id)

	cost := billing.ExtensionCost(extraMin, s.HourlyRate)
	err = e.store.Atomically(ctx, func(ctx context.Context) error {
		_, err := e.store.UpdateSession(ctx, id, models.Fields{
			models.FieldPlannedDuration: planned,
			models.FieldTotalDue:        billing.Add(s.TotalDue, cost),
		})
		return err
	})
	if err != nil {
		e.register(s)
		return e.failed(op, id, err)
	}

	s.PlannedDurationMin = planned
	e.register(s)

	e.log.Info().
		Uint("session_id", id).
		Int("extra_min", extraMin).
		Int("planned_min", planned).
		Float64("cost", cost).
		Msg("session extended")
	return nil
}

func (e *Engine) load(ctx context.Context, op string, id uint) (*models.Session, error) {
	s, err := e.store.FindSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, notFoundErr(op, id)
	}
	return s, nil
}

func (e *Engine) setAvailability(ctx context.Context, s *models.Session, availability models.Availability) error {
	if s.SystemID == nil {
		return nil // system was removed; history keeps no reference
	}
	_, err := e.store.SetSystemAvailability(ctx, *s.SystemID, availability)
	return err
}

// register starts the countdown for an active session. A failure here
// never undoes the committed transition; the session can be re-timed with
// RestoreTimers.
func (e *Engine) register(s *models.Session) {
	if s.LoginTime == nil {
		return
	}
	_, err := e.timers.Register(timer.Registration{
		SessionID:          s.ID,
		Customer:           s.CustomerName,
		System:             s.SystemName(),
		PlannedDurationMin: s.PlannedDurationMin,
		LoginTime:          *s.LoginTime,
	})
	if err != nil {
		e.log.Error().Err(err).Uint("session_id", s.ID).Msg("failed to register timer")
	}
}

// failed logs a rejected transition and wraps storage failures with op.
func (e *Engine) failed(op string, id uint, err error) error {
	var domain *Error
	if errors.As(err, &domain) {
		e.log.Warn().Err(err).Uint("session_id", id).Msg("rejected transition")
		return err
	}
	e.log.Error().Err(err).Uint("session_id", id).Msg("transition failed")
	return fmt.Errorf("%s: %w", op, err)
}
