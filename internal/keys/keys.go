package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// View switching
	SyncView      key.Binding
	AccountsView  key.Binding
	SearchView    key.Binding
	AnalyticsView key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Sync commands
	StartSync  key.Binding
	PauseSync  key.Binding
	ResumeSync key.Binding

	// Server probes
	TestConnection key.Binding
	TestEmails     key.Binding

	// Account management
	AddAccount    key.Binding
	EditAccount   key.Binding
	DeleteAccount key.Binding

	// Notifications
	DismissToast key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		SyncView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sync"),
		),
		AccountsView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "accounts"),
		),
		SearchView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "search"),
		),
		AnalyticsView: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "analytics"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		StartSync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start sync"),
		),
		PauseSync: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause sync"),
		),
		ResumeSync: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resume sync"),
		),
		TestConnection: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "test connection"),
		),
		TestEmails: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "test mailbox"),
		),
		AddAccount: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add account"),
		),
		EditAccount: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit account"),
		),
		DeleteAccount: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete account"),
		),
		DismissToast: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dismiss toast"),
		),
	}
}
