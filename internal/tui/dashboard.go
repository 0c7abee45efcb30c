package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/cafedesk/internal/models"
	"github.com/balkashynov/cafedesk/internal/session"
	"github.com/balkashynov/cafedesk/internal/timer"
	"github.com/balkashynov/cafedesk/internal/timeutil"
)

// SessionEngine is what the dashboard needs from the lifecycle engine.
type SessionEngine interface {
	ActiveSessions(ctx context.Context) ([]models.Session, error)
	ExtendSession(ctx context.Context, id uint, extraHours float64) error
	EndSession(ctx context.Context, id uint, req session.EndRequest) error
}

// TimerSource exposes the live countdowns.
type TimerSource interface {
	Snapshots() []timer.Snapshot
}

const bannerTTL = 10 * time.Second

// DashboardModel shows every active session with its live remaining time
type DashboardModel struct {
	width  int
	height int

	engine SessionEngine
	timers TimerSource
	now    func() time.Time

	sessions []models.Session
	snaps    map[uint]timer.Snapshot
	table    table.Model

	keys dashboardKeyMap
	help help.Model

	// Banner for the latest timer event or action result
	banner      string
	bannerColor string
	bannerUntil time.Time

	err error
}

// dashboardTickMsg is sent every second to recompute remaining times
type dashboardTickMsg time.Time

// EventMsg wraps a timer event delivered to the running program
type EventMsg struct {
	Event timer.Event
}

type sessionsLoadedMsg struct {
	sessions []models.Session
	err      error
}

type actionDoneMsg struct {
	text string
	err  error
}

// NewDashboardModel creates the dashboard model
func NewDashboardModel(engine SessionEngine, timers TimerSource, now func() time.Time) DashboardModel {
	if now == nil {
		now = time.Now
	}

	m := DashboardModel{
		engine: engine,
		timers: timers,
		now:    now,
		snaps:  make(map[uint]timer.Snapshot),
		keys:   defaultDashboardKeyMap(),
		help:   help.New(),
		width:  100,
		height: 24,
	}
	m.table = newSessionTable(nil, m.width, m.tableHeight())
	return m
}

// Init loads sessions and starts the ticker
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadSessions, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return dashboardTickMsg(t)
	})
}

func (m DashboardModel) loadSessions() tea.Msg {
	sessions, err := m.engine.ActiveSessions(context.Background())
	return sessionsLoadedMsg{sessions: sessions, err: err}
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refreshTable()
		return m, nil

	case dashboardTickMsg:
		m.refreshTable()
		return m, tick()

	case sessionsLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.sessions = msg.sessions
		}
		m.refreshTable()
		return m, nil

	case EventMsg:
		color := ColorWarning
		if msg.Event.Kind == timer.EventExpired {
			color = ColorError
		}
		m.setBanner(msg.Event.Message(), color)
		m.refreshTable()
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.setBanner("Error: "+msg.err.Error(), ColorError)
		} else {
			m.setBanner(msg.text, ColorSuccess)
		}
		return m, m.loadSessions

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Extend):
			if s := m.selected(); s != nil {
				return m, m.extend(*s)
			}
			return m, nil
		case key.Matches(msg, m.keys.End):
			if s := m.selected(); s != nil {
				return m, m.end(*s)
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadSessions
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *DashboardModel) setBanner(text, color string) {
	m.banner = text
	m.bannerColor = color
	m.bannerUntil = m.now().Add(bannerTTL)
}

func (m DashboardModel) selected() *models.Session {
	if len(m.sessions) == 0 {
		return nil
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sessions) {
		return nil
	}
	return &m.sessions[i]
}

func (m DashboardModel) extend(s models.Session) tea.Cmd {
	return func() tea.Msg {
		err := m.engine.ExtendSession(context.Background(), s.ID, 1)
		return actionDoneMsg{
			text: fmt.Sprintf("Extended #%d %s by 1h", s.ID, s.CustomerName),
			err:  err,
		}
	}
}

func (m DashboardModel) end(s models.Session) tea.Cmd {
	logout := timeutil.FromTime(m.now()).String()
	return func() tea.Msg {
		err := m.engine.EndSession(context.Background(), s.ID, session.EndRequest{LogoutTime: logout})
		return actionDoneMsg{
			text: fmt.Sprintf("Ended #%d %s at %s", s.ID, s.CustomerName, logout),
			err:  err,
		}
	}
}

// refreshTable rebuilds rows from the latest timer snapshots, keeping the cursor
func (m *DashboardModel) refreshTable() {
	m.snaps = make(map[uint]timer.Snapshot)
	if m.timers != nil {
		for _, snap := range m.timers.Snapshots() {
			m.snaps[snap.SessionID] = snap
		}
	}

	cursor := m.table.Cursor()
	m.table = newSessionTable(m.rows(), m.width-4, m.tableHeight())
	if cursor >= 0 && cursor < len(m.sessions) {
		m.table.SetCursor(cursor)
	}
}

func (m DashboardModel) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.sessions))
	for _, s := range m.sessions {
		login := "-"
		if s.LoginTime != nil {
			login = *s.LoginTime
		}

		remaining := "--:--:--"
		status := "○ no timer"
		if snap, ok := m.snaps[s.ID]; ok {
			remaining = timeutil.FormatClock(snap.Remaining)
			status = statusLabel(snap)
		}

		rows = append(rows, table.Row{
			fmt.Sprintf("%d", s.ID),
			s.CustomerName,
			s.SystemName(),
			login,
			timeutil.FormatDuration(s.PlannedDurationMin),
			remaining,
			status,
		})
	}
	return rows
}

func statusLabel(snap timer.Snapshot) string {
	switch {
	case snap.ExpiredFired || snap.Remaining <= 0:
		return "■ TIME UP"
	case snap.WarningFired:
		return "▲ ending soon"
	default:
		return "● playing"
	}
}

func (m DashboardModel) tableHeight() int {
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Customer", Width: 20},
		{Title: "System", Width: 10},
		{Title: "Login", Width: 10},
		{Title: "Planned", Width: 9},
		{Title: "Remaining", Width: 10},
		{Title: "Status", Width: 14},
	}
}

func newSessionTable(rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(sessionColumns()),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		BorderBottom(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorAccentMain)).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(lipgloss.Color(ColorPrimaryText))

	t.SetStyles(s)
	return t
}

// View renders the dashboard
func (m DashboardModel) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true)

	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render("🎮 CAFEDESK · ACTIVE SESSIONS"),
		"  ",
		clockStyle.Render(m.now().Format("Mon 02 Jan 15:04:05")),
	)
	b.WriteString(header)
	b.WriteString("\n\n")

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		b.WriteString(errStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	if len(m.sessions) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("No active sessions. Start one with 'cafedesk session start <id>'."))
		b.WriteString("\n")
	} else {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder))
		b.WriteString(box.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(m.renderSummary())
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m DashboardModel) renderBanner() string {
	if m.banner == "" || m.now().After(m.bannerUntil) {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.bannerColor)).
		Bold(true).
		Render(m.banner)
}

func (m DashboardModel) renderSummary() string {
	var warned, expired int
	for _, snap := range m.snaps {
		switch {
		case snap.ExpiredFired || snap.Remaining <= 0:
			expired++
		case snap.WarningFired:
			warned++
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	return style.Render(fmt.Sprintf("%d active · %d ending soon · %d over time", len(m.sessions), warned, expired))
}
