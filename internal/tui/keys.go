package tui

import "github.com/charmbracelet/bubbles/key"

// dashboardKeyMap defines keybindings for the live dashboard.
type dashboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Extend  key.Binding
	End     key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Extend, k.End, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Extend, k.End},
		{k.Refresh, k.Quit},
	}
}

func defaultDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Extend: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "extend 1h"),
		),
		End: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "end now"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
