package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/balkashynov/cafedesk/internal/timer"
)

// Countdowns is the timer registry the dashboard reads from and listens to.
type Countdowns interface {
	TimerSource
	Events() <-chan timer.Event
}

// RunDashboard runs the live dashboard until the user quits or ctx is
// cancelled. Timer events are forwarded into the program as EventMsg.
func RunDashboard(ctx context.Context, engine SessionEngine, timers Countdowns, now func() time.Time) error {
	model := NewDashboardModel(engine, timers, now)
	p := tea.NewProgram(model, tea.WithAltScreen())

	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		_, err := p.Run()
		return err
	})

	g.Go(func() error {
		for {
			select {
			case ev := <-timers.Events():
				p.Send(EventMsg{Event: ev})
			case <-done:
				return nil
			case <-ctx.Done():
				p.Quit()
				<-done
				return nil
			}
		}
	})

	return g.Wait()
}
