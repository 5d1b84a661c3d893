package analyticsview

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtran/maildash/internal/api"
	"github.com/dtran/maildash/internal/model"
	"github.com/dtran/maildash/internal/theme"
)

// LoadFailedMsg tells the app an analytics request was rejected.
type LoadFailedMsg struct{ Err error }

// loadedMsg carries the fetched aggregates.
type loadedMsg struct {
	overview *model.AnalyticsOverview
	senders  []model.SenderAnalytics
	domains  []model.DomainAnalytics
}

const topN = 5

// Model is the analytics view: aggregate stat cards plus top-sender
// and top-domain tables, all computed server-side.
type Model struct {
	client   *api.Client
	overview *model.AnalyticsOverview
	senders  []model.SenderAnalytics
	domains  []model.DomainAnalytics
	loading  bool
	width    int
	height   int
}

// New creates the analytics view.
func New(client *api.Client, width, height int) Model {
	return Model{
		client: client,
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Load fetches the aggregates in the background.
func (m *Model) Load() tea.Cmd {
	m.loading = true
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()

		overview, err := client.GetOverview(ctx, "")
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		senders, err := client.GetTopSenders(ctx, "", topN)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		domains, err := client.GetTopDomains(ctx, "", topN)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}

		return loadedMsg{overview: overview, senders: senders, domains: domains}
	}
}

// Update handles messages for the analytics view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.overview = msg.overview
		m.senders = msg.senders
		m.domains = msg.domains
		return m, nil

	case LoadFailedMsg:
		m.loading = false
		return m, nil
	}

	return m, nil
}

// View renders the stat cards and top lists.
func (m Model) View() string {
	if m.loading && m.overview == nil {
		return theme.SubtleStyle.Render("Loading analytics...")
	}
	if m.overview == nil {
		return theme.SubtleStyle.Render("No analytics yet. Press R on the sync view to ingest some mail.")
	}

	cards := lipgloss.JoinHorizontal(
		lipgloss.Top,
		statCard("Total Emails", fmt.Sprintf("%d", m.overview.TotalEmails)),
		statCard("Accounts", fmt.Sprintf("%d", m.overview.TotalAccounts)),
		statCard("Senders", fmt.Sprintf("%d", m.overview.UniqueSenders)),
		statCard("Today", fmt.Sprintf("%d", m.overview.EmailsToday)),
		statCard("This Week", fmt.Sprintf("%d", m.overview.EmailsThisWeek)),
	)

	sections := []string{cards}

	if len(m.senders) > 0 {
		lines := []string{lipgloss.NewStyle().Bold(true).Render("Top senders")}
		for _, s := range m.senders {
			lines = append(lines, fmt.Sprintf("%6d  %5.1f%%  %s", s.Count, s.Percentage, s.Sender))
		}
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	if len(m.domains) > 0 {
		lines := []string{lipgloss.NewStyle().Bold(true).Render("Top domains")}
		for _, d := range m.domains {
			lines = append(lines, fmt.Sprintf("%6d  %5.1f%%  %s", d.Count, d.Percentage, d.Domain))
		}
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// statCard renders one labelled number.
func statCard(label, value string) string {
	return theme.CardStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			theme.SubtleStyle.Render(label),
			lipgloss.NewStyle().Bold(true).Render(value),
		),
	)
}

// Hints returns the status-bar hint line for this view.
func (m Model) Hints() string {
	return "R reload · ? help"
}
