package searchview

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtran/maildash/internal/api"
	"github.com/dtran/maildash/internal/keys"
	"github.com/dtran/maildash/internal/model"
	"github.com/dtran/maildash/internal/store"
	"github.com/dtran/maildash/internal/theme"
)

// SearchFailedMsg tells the app a search request was rejected.
type SearchFailedMsg struct{ Err error }

// resultsMsg carries one page of hits back from the server.
type resultsMsg struct {
	query  string
	result *model.SearchResult
}

// cachedMsg carries locally re-sorted hits from the session cache.
type cachedMsg struct {
	emails []model.Email
}

// sortModes are cycled with tab over the cached results.
var sortModes = []string{"date", "sender", "subject"}

// Model is the full-text search view. Results are fetched from the
// server and mirrored into the session cache, so re-sorting never
// refetches.
type Model struct {
	client    *api.Client
	cache     *store.SessionCache
	keys      *keys.KeyMap
	input     textinput.Model
	table     table.Model
	query     string
	total     int
	sortIndex int
	searching bool
	pageSize  int
	width     int
	height    int
}

// New creates the search view.
func New(client *api.Client, cache *store.SessionCache, k *keys.KeyMap, pageSize, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "search emails..."
	ti.Prompt = "/ "
	ti.Width = width - 4

	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "From", Width: 28},
		{Title: "Subject", Width: 44},
		{Title: "Folder", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(height-6),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(theme.ColorBlue)
	styles.Selected = styles.Selected.Foreground(theme.ColorWhite).Background(theme.ColorSubtle)
	t.SetStyles(styles)

	if pageSize <= 0 {
		pageSize = 20
	}

	return Model{
		client:   client,
		cache:    cache,
		keys:     k,
		input:    ti,
		table:    t,
		pageSize: pageSize,
		width:    width,
		height:   height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4
	m.table.SetHeight(height - 6)
}

// Focus puts the cursor in the query input.
func (m *Model) Focus() tea.Cmd {
	m.searching = true
	return m.input.Focus()
}

// Searching reports whether the query input owns key input.
func (m Model) Searching() bool {
	return m.searching
}

// Update handles messages for the search view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsMsg:
		m.query = msg.query
		m.total = msg.result.Total
		m.setRows(msg.result.Emails)
		return m, m.cacheResults(msg.query, msg.result.Emails)

	case cachedMsg:
		m.setRows(msg.emails)
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleSearchKeys processes input while the query box is focused.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.input.Blur()
		query := m.input.Value()
		if query == "" {
			return m, nil
		}
		return m, m.search(query)

	case "esc":
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNormalKeys processes input while browsing results.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SearchView), msg.String() == "/":
		return m, m.Focus()

	case msg.String() == "tab":
		if m.query == "" {
			return m, nil
		}
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		return m, m.resort()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// search fetches one page of hits from the server.
func (m Model) search(query string) tea.Cmd {
	client := m.client
	pageSize := m.pageSize
	return func() tea.Msg {
		result, err := client.SearchEmails(
			context.Background(), query, model.SearchFilters{}, 1, pageSize)
		if err != nil {
			return SearchFailedMsg{Err: err}
		}
		return resultsMsg{query: query, result: result}
	}
}

// cacheResults mirrors the fetched page into the session cache.
func (m Model) cacheResults(query string, emails []model.Email) tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		_ = cache.CacheSearchResults(context.Background(), query, emails)
		return nil
	}
}

// resort reloads the current hits from the cache in the new order.
func (m Model) resort() tea.Cmd {
	cache := m.cache
	filter := store.EmailFilter{
		Query:    m.query,
		SortBy:   sortModes[m.sortIndex],
		SortDesc: sortModes[m.sortIndex] == "date",
	}
	return func() tea.Msg {
		emails, err := cache.CachedEmails(context.Background(), filter)
		if err != nil {
			return SearchFailedMsg{Err: err}
		}
		return cachedMsg{emails: emails}
	}
}

// setRows fills the results table.
func (m *Model) setRows(emails []model.Email) {
	rows := make([]table.Row, len(emails))
	for i, e := range emails {
		rows[i] = table.Row{
			e.Date.Format("2006-01-02 15:04"),
			e.From,
			e.Subject,
			e.Folder,
		}
	}
	m.table.SetRows(rows)
}

// View renders the query input and the results table.
func (m Model) View() string {
	summary := ""
	if m.query != "" {
		summary = theme.SubtleStyle.Render(fmt.Sprintf(
			"%d results for %q, sorted by %s",
			m.total, m.query, sortModes[m.sortIndex]))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.input.View(),
		summary,
		m.table.View(),
	)
}

// Hints returns the status-bar hint line for this view.
func (m Model) Hints() string {
	if m.searching {
		return "enter search · esc cancel"
	}
	return "/ query · tab cycle sort · ? help"
}
