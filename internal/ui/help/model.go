package help

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtran/maildash/internal/keys"
	"github.com/dtran/maildash/internal/theme"
)

// Model renders the keybinding reference.
type Model struct {
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates the help view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the grouped keybindings.
func (m Model) View() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Views", []key.Binding{
			m.keys.SyncView, m.keys.AccountsView,
			m.keys.SearchView, m.keys.AnalyticsView,
		}},
		{"Sync", []key.Binding{
			m.keys.StartSync, m.keys.PauseSync, m.keys.ResumeSync,
			m.keys.TestConnection, m.keys.TestEmails, m.keys.Refresh,
		}},
		{"Accounts", []key.Binding{
			m.keys.AddAccount, m.keys.EditAccount, m.keys.DeleteAccount,
		}},
		{"General", []key.Binding{
			m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Back,
			m.keys.DismissToast, m.keys.Help, m.keys.Quit,
		}},
	}

	blocks := make([]string, 0, len(sections))
	for _, section := range sections {
		lines := []string{lipgloss.NewStyle().Bold(true).Render(section.title)}
		for _, b := range section.bindings {
			h := b.Help()
			lines = append(lines,
				lipgloss.NewStyle().Width(12).Render(h.Key)+
					theme.SubtleStyle.Render(h.Desc))
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
