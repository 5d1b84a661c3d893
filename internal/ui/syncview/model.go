package syncview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtran/maildash/internal/keys"
	"github.com/dtran/maildash/internal/model"
	"github.com/dtran/maildash/internal/syncmon"
	"github.com/dtran/maildash/internal/theme"
)

// StartRequestedMsg asks the app to start sync for an account.
type StartRequestedMsg struct{ AccountID string }

// PauseRequestedMsg asks the app to pause sync for an account.
type PauseRequestedMsg struct{ AccountID string }

// ResumeRequestedMsg asks the app to resume sync for an account.
type ResumeRequestedMsg struct{ AccountID string }

// TestConnectionRequestedMsg asks the app to probe connectivity.
type TestConnectionRequestedMsg struct{ AccountID string }

// TestEmailsRequestedMsg asks the app to probe the mailbox count.
type TestEmailsRequestedMsg struct{ AccountID string }

// RefreshRequestedMsg asks the app for a manual poll.
type RefreshRequestedMsg struct{}

// Model is the sync monitoring view: one card per account with its
// live status, progress, and the sync command keys. Status data is
// read from the shared store, which the poller replaces wholesale.
type Model struct {
	accounts []model.Account
	store    *syncmon.StatusStore
	keys     *keys.KeyMap
	selected int
	width    int
	height   int
}

// New creates the sync view backed by the shared status store.
func New(store *syncmon.StatusStore, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  store,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetAccounts replaces the rendered account list after a poll batch.
func (m *Model) SetAccounts(accounts []model.Account) {
	m.accounts = accounts
	if m.selected >= len(accounts) {
		m.selected = len(accounts) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Selected returns the currently focused account, if any.
func (m Model) Selected() (model.Account, bool) {
	if m.selected < 0 || m.selected >= len(m.accounts) {
		return model.Account{}, false
	}
	return m.accounts[m.selected], true
}

// Update handles key input for the sync view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.selected < len(m.accounts)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Refresh):
		return m, func() tea.Msg { return RefreshRequestedMsg{} }

	case key.Matches(keyMsg, m.keys.StartSync):
		return m.request(func(id string) tea.Msg { return StartRequestedMsg{AccountID: id} })

	case key.Matches(keyMsg, m.keys.PauseSync):
		return m.request(func(id string) tea.Msg { return PauseRequestedMsg{AccountID: id} })

	case key.Matches(keyMsg, m.keys.ResumeSync):
		return m.request(func(id string) tea.Msg { return ResumeRequestedMsg{AccountID: id} })

	case key.Matches(keyMsg, m.keys.TestConnection):
		return m.request(func(id string) tea.Msg { return TestConnectionRequestedMsg{AccountID: id} })

	case key.Matches(keyMsg, m.keys.TestEmails):
		return m.request(func(id string) tea.Msg { return TestEmailsRequestedMsg{AccountID: id} })
	}

	return m, nil
}

// request emits an intent message for the focused account. No local
// state validation happens here: commands are forwarded regardless of
// the cached status, and the server decides whether they apply.
func (m Model) request(makeMsg func(accountID string) tea.Msg) (Model, tea.Cmd) {
	account, ok := m.Selected()
	if !ok {
		return m, nil
	}
	id := account.ID
	return m, func() tea.Msg { return makeMsg(id) }
}

// View renders one card per account.
func (m Model) View() string {
	if len(m.accounts) == 0 {
		return theme.SubtleStyle.Render(
			"No email accounts. Press 2 to open the accounts view and add one.")
	}

	cards := make([]string, 0, len(m.accounts))
	for i, account := range m.accounts {
		cards = append(cards, m.renderCard(account, i == m.selected))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// renderCard renders a single account with its cached status. An
// account with no status record shows as idle with zero progress.
func (m Model) renderCard(account model.Account, selected bool) string {
	var status *model.SyncStatus
	if st, ok := m.store.Get(account.ID); ok {
		status = &st
	}
	state := model.StateOf(status)

	header := lipgloss.NewStyle().Bold(true).Render(account.Name) +
		theme.SubtleStyle.Render("  "+account.Email)

	badge := theme.StateBadge(state)

	lines := []string{header + "  " + badge}

	if status != nil {
		pct := status.Progress()
		bar := m.renderProgress(state, pct)
		lines = append(lines, fmt.Sprintf("%s %3d%%  %d / %d emails",
			bar, pct, status.ProcessedEmails, status.TotalEmails))

		detail := make([]string, 0, 2)
		if status.CurrentFolder != "" {
			detail = append(detail, "folder: "+status.CurrentFolder)
		}
		if status.NewEmails > 0 || status.UpdatedEmails > 0 {
			detail = append(detail, fmt.Sprintf("%d new, %d updated",
				status.NewEmails, status.UpdatedEmails))
		}
		if len(detail) > 0 {
			lines = append(lines, theme.SubtleStyle.Render(strings.Join(detail, "  ")))
		}
		if status.ErrorMessage != "" {
			lines = append(lines, theme.ErrorStyle.Render("Error: "+status.ErrorMessage))
		}
	}

	style := theme.CardStyle
	if selected {
		style = theme.SelectedCardStyle
	}
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderProgress renders a static progress bar tinted by state.
func (m Model) renderProgress(state model.SyncState, pct int) string {
	barWidth := m.width - 30
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 50 {
		barWidth = 50
	}

	bar := progress.New(
		progress.WithSolidFill(theme.StateColor(state).Dark),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(float64(pct) / 100)
}

// Hints returns the status-bar hint line for this view.
func (m Model) Hints() string {
	return "s start · p pause · r resume · t test conn · T test mailbox · R refresh · ? help"
}
