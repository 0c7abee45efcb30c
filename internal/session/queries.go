package session

import (
	"context"
	"fmt"
	"time"

	"github.com/balkashynov/cafedesk/internal/billing"
	"github.com/balkashynov/cafedesk/internal/models"
	"github.com/balkashynov/cafedesk/internal/timeutil"
)

// GetSession returns one session with its system.
func (e *Engine) GetSession(ctx context.Context, id uint) (*models.Session, error) {
	s, err := e.load(ctx, "get session", id)
	if err != nil {
		if KindOf(err) != KindUnknown {
			return nil, err
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// ActiveSessions returns every session currently in play.
func (e *Engine) ActiveSessions(ctx context.Context) ([]models.Session, error) {
	return e.find(ctx, models.SessionFilter{States: []models.State{models.StateActive}})
}

// PlannedSessions returns sessions that were paid for but not started.
func (e *Engine) PlannedSessions(ctx context.Context) ([]models.Session, error) {
	return e.find(ctx, models.SessionFilter{States: []models.State{models.StatePlanned}})
}

// SessionsByDate returns all sessions booked for date (YYYY-MM-DD).
func (e *Engine) SessionsByDate(ctx context.Context, date string) ([]models.Session, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, validationErr("list sessions", "date %q must be in YYYY-MM-DD format", date)
	}
	return e.find(ctx, models.SessionFilter{Date: date})
}

// CompletedSessions returns completed sessions between from and to, inclusive.
// Either bound may be empty.
func (e *Engine) CompletedSessions(ctx context.Context, from, to string) ([]models.Session, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return e.find(ctx, models.SessionFilter{
		States: []models.State{models.StateCompleted},
		From:   from,
		To:     to,
	})
}

// PendingSessions returns sessions whose payment is still outstanding.
func (e *Engine) PendingSessions(ctx context.Context) ([]models.Session, error) {
	return e.find(ctx, models.SessionFilter{PaymentStatus: models.PaymentPending})
}

func (e *Engine) find(ctx context.Context, filter models.SessionFilter) ([]models.Session, error) {
	sessions, err := e.store.FindSessions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// UpdatePaymentStatus records a change in settlement for a session.
func (e *Engine) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error {
	const op = "update payment"

	if !status.Valid() {
		return validationErr(op, "payment status %q must be one of PAID, Pending, Refunded", status)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rows, err := e.store.UpdateSession(ctx, id, models.Fields{models.FieldPaymentStatus: status})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return notFoundErr(op, id)
	}

	e.log.Info().Uint("session_id", id).Str("status", string(status)).Msg("payment status updated")
	return nil
}

// Revenue totals completed sessions over a date range.
type Revenue struct {
	From     string
	To       string
	Sessions int
	Total    float64
	ByMethod map[models.PaymentMethod]float64
	Pending  float64
	Refunded int
}

// RevenueSummary totals the amount due on completed sessions between from
// and to. Refunded sessions are counted but add nothing to the totals.
func (e *Engine) RevenueSummary(ctx context.Context, from, to string) (Revenue, error) {
	sessions, err := e.CompletedSessions(ctx, from, to)
	if err != nil {
		return Revenue{}, err
	}

	rev := Revenue{
		From:     from,
		To:       to,
		ByMethod: make(map[models.PaymentMethod]float64, len(models.PaymentMethods)),
	}
	for _, m := range models.PaymentMethods {
		rev.ByMethod[m] = 0
	}

	for _, s := range sessions {
		rev.Sessions++
		switch s.PaymentStatus {
		case models.PaymentRefunded:
			rev.Refunded++
			continue
		case models.PaymentPending:
			rev.Pending = billing.Add(rev.Pending, s.TotalDue)
		}
		rev.Total = billing.Add(rev.Total, s.TotalDue)
		rev.ByMethod[s.PaymentMethod] = billing.Add(rev.ByMethod[s.PaymentMethod], s.TotalDue)
	}

	return rev, nil
}

// RestoreTimers registers a countdown for every ACTIVE session from its
// stored login time. Used after a restart.
func (e *Engine) RestoreTimers(ctx context.Context) (int, error) {
	active, err := e.ActiveSessions(ctx)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range active {
		e.register(&active[i])
	}

	e.log.Info().Int("count", len(active)).Msg("timers restored")
	return len(active), nil
}

// ElapsedMinutes reports how long a session has been played: live for an
// ACTIVE session, the recorded duration for a COMPLETED one, zero otherwise.
func (e *Engine) ElapsedMinutes(s *models.Session) int {
	switch s.State {
	case models.StateActive:
		if s.LoginTime == nil {
			return 0
		}
		login, err := timeutil.ParseTimeOfDay(*s.LoginTime)
		if err != nil {
			return 0
		}
		return timeutil.ElapsedMinutes(e.now(), login)
	case models.StateCompleted:
		if s.ActualDurationMin != nil {
			return *s.ActualDurationMin
		}
	}
	return 0
}

func validateRange(from, to string) error {
	const op = "list sessions"

	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return validationErr(op, "date %q must be in YYYY-MM-DD format", d)
		}
	}
	if from != "" && to != "" && from > to {
		return validationErr(op, "range start %s is after end %s", from, to)
	}
	return nil
}
