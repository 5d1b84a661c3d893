package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtran/maildash/internal/api"
	"github.com/dtran/maildash/internal/config"
	"github.com/dtran/maildash/internal/keys"
	"github.com/dtran/maildash/internal/model"
	"github.com/dtran/maildash/internal/notify"
	"github.com/dtran/maildash/internal/store"
	"github.com/dtran/maildash/internal/syncmon"
	"github.com/dtran/maildash/internal/ui"
	"github.com/dtran/maildash/internal/ui/accounts"
	"github.com/dtran/maildash/internal/ui/analyticsview"
	helpview "github.com/dtran/maildash/internal/ui/help"
	"github.com/dtran/maildash/internal/ui/login"
	"github.com/dtran/maildash/internal/ui/searchview"
	"github.com/dtran/maildash/internal/ui/syncview"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewSync
	ViewAccounts
	ViewSearch
	ViewAnalytics
	ViewHelp
)

// cacheAccountsMsg is produced after the account list has been
// mirrored into the session cache; it carries nothing.
type cacheAccountsMsg struct{}

// Model is the root Bubble Tea model that manages view routing, the
// polling lifecycle, and the notification overlay.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	logger       *slog.Logger

	client *api.Client
	cache  *store.SessionCache

	center     *notify.Center
	statuses   *syncmon.StatusStore
	poller     *syncmon.Poller
	controller *syncmon.Controller

	syncView      syncview.Model
	accountsView  accounts.Model
	searchView    searchview.Model
	analyticsView analyticsview.Model
	loginView     login.Model
	helpView      helpview.Model

	user         *model.User
	lastBatchErr error
	ready        bool
}

// New wires the application together from its configuration and
// shared collaborators.
func New(cfg *config.Config, client *api.Client, cache *store.SessionCache, logger *slog.Logger) Model {
	k := keys.DefaultKeyMap()

	center := notify.NewCenter(cfg.ToastDuration())
	statuses := syncmon.NewStatusStore()
	poller := syncmon.NewPoller(client, statuses,
		cfg.BaseInterval(), cfg.FastInterval(), logger)
	controller := syncmon.NewController(client, center, poller, logger)

	return Model{
		currentView: ViewLogin,
		keys:        k,
		logger:      logger,
		client:      client,
		cache:       cache,
		center:      center,
		statuses:    statuses,
		poller:      poller,
		controller:  controller,

		syncView:      syncview.New(statuses, k, 80, 24),
		accountsView:  accounts.New(client, k, 80, 24),
		searchView:    searchview.New(client, cache, k, cfg.UI.PageSize, 80, 24),
		analyticsView: analyticsview.New(client, 80, 24),
		loginView:     login.New(client, 80, 24),
		helpView:      helpview.New(k, 80, 24),
	}
}

// Init begins either at the login boundary or, when a session is
// already stored, directly on the sync view with polling active.
func (m Model) Init() tea.Cmd {
	if m.client.HasSession() {
		return nil // wait for the first WindowSizeMsg, then start
	}
	return m.loginView.Start("")
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.syncView.SetSize(w, h)
		m.accountsView.SetSize(w, h)
		m.searchView.SetSize(w, h)
		m.analyticsView.SetSize(w, h)
		m.loginView.SetSize(w, h)
		m.helpView.SetSize(w, h)

		if !m.ready {
			m.ready = true
			if m.client.HasSession() && m.currentView == ViewLogin {
				m.currentView = ViewSync
				return m, m.poller.Start()
			}
		}
		return m.updateActiveView(msg)

	case syncmon.SnapshotMsg:
		m.lastBatchErr = nil
		m.syncView.SetAccounts(msg.Accounts)
		m.accountsView.SetAccounts(msg.Accounts)
		return m, tea.Batch(m.cacheAccounts(msg.Accounts), m.poller.WaitForNext())

	case syncmon.BatchErrorMsg:
		if api.IsAuthError(msg.Err) {
			return m.handleSessionExpired()
		}
		// Transient list failures show in the header rather than as a
		// toast; the next successful batch clears them.
		m.lastBatchErr = msg.Err
		return m, m.poller.WaitForNext()

	case syncmon.CommandDoneMsg:
		if m.logger != nil {
			m.logger.Info("sync command accepted",
				"op", string(msg.Op), "account", msg.AccountID,
				"message", msg.Message)
		}
		return m, nil

	case syncmon.CommandFailedMsg:
		if api.IsAuthError(msg.Err) {
			return m.handleSessionExpired()
		}
		return m, m.center.Push(notify.KindError,
			msg.Op.FailureTitle(), msg.Op.FailureMessage(msg.Err))

	case syncmon.TestCompletedMsg:
		return m, m.pushTestResult(msg)

	case notify.ExpiredMsg:
		m.center.Dismiss(msg.ID)
		return m, nil

	case syncview.RefreshRequestedMsg:
		m.poller.Refresh()
		return m, m.center.Push(notify.KindInfo, "Refreshing", "Refreshing data...")

	case syncview.StartRequestedMsg:
		return m, m.controller.Start(msg.AccountID)
	case syncview.PauseRequestedMsg:
		return m, m.controller.Pause(msg.AccountID)
	case syncview.ResumeRequestedMsg:
		return m, m.controller.Resume(msg.AccountID)
	case syncview.TestConnectionRequestedMsg:
		return m, m.controller.TestConnection(msg.AccountID)
	case syncview.TestEmailsRequestedMsg:
		return m, m.controller.TestEmails(msg.AccountID)

	case accounts.TestConnectionRequestedMsg:
		return m, m.controller.TestConnection(msg.AccountID)

	case accounts.MutatedMsg:
		return m, m.handleAccountMutation(msg)

	case searchview.SearchFailedMsg:
		if api.IsAuthError(msg.Err) {
			return m.handleSessionExpired()
		}
		return m, m.center.Push(notify.KindError, "Search Failed",
			fmt.Sprintf("%v", msg.Err))

	case analyticsview.LoadFailedMsg:
		if api.IsAuthError(msg.Err) {
			return m.handleSessionExpired()
		}
		var cmd tea.Cmd
		m.analyticsView, cmd = m.analyticsView.Update(msg)
		return m, tea.Batch(cmd, m.center.Push(notify.KindError,
			"Analytics Failed", fmt.Sprintf("%v", msg.Err)))

	case login.SucceededMsg:
		m.user = &msg.User
		m.currentView = ViewSync
		return m, tea.Batch(
			m.poller.Start(),
			m.center.Push(notify.KindSuccess, "Signed In",
				"Welcome back, "+msg.User.Email),
		)

	case login.FailedMsg:
		return m, m.loginView.Start(fmt.Sprintf("Login failed: %v", msg.Err))

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
		return m.updateActiveView(msg)
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes bindings that work from any view, unless
// the active view is capturing raw text input.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	// Ctrl+C always quits, even inside a form.
	if msg.String() == "ctrl+c" {
		m.poller.Stop()
		return true, m, tea.Quit
	}

	if m.capturingInput() {
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.poller.Stop()
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.SyncView):
		m.switchView(ViewSync)
		return true, m, nil

	case key.Matches(msg, m.keys.AccountsView):
		m.switchView(ViewAccounts)
		return true, m, nil

	case key.Matches(msg, m.keys.SearchView):
		if m.currentView == ViewSearch {
			return false, m, nil // let the view re-focus its input
		}
		m.switchView(ViewSearch)
		return true, m, m.searchView.Focus()

	case key.Matches(msg, m.keys.AnalyticsView):
		m.switchView(ViewAnalytics)
		return true, m, m.analyticsView.Load()

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.switchView(ViewHelp)
		}
		return true, m, nil

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		return false, m, nil

	case key.Matches(msg, m.keys.DismissToast):
		m.center.DismissOldest()
		return true, m, nil

	case key.Matches(msg, m.keys.Refresh) && m.currentView == ViewAnalytics:
		return true, m, m.analyticsView.Load()
	}

	return false, m, nil
}

// capturingInput reports whether the active view owns raw key input.
func (m Model) capturingInput() bool {
	switch m.currentView {
	case ViewLogin:
		return true
	case ViewAccounts:
		return m.accountsView.Editing()
	case ViewSearch:
		return m.searchView.Searching()
	}
	return false
}

// switchView changes the active view, remembering the previous one
// for help toggling.
func (m *Model) switchView(v ViewState) {
	if m.currentView != v {
		m.previousView = m.currentView
		m.currentView = v
	}
}

// updateActiveView forwards a message to the current view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewSync:
		m.syncView, cmd = m.syncView.Update(msg)
	case ViewAccounts:
		m.accountsView, cmd = m.accountsView.Update(msg)
	case ViewSearch:
		m.searchView, cmd = m.searchView.Update(msg)
	case ViewAnalytics:
		m.analyticsView, cmd = m.analyticsView.Update(msg)
	}
	return m, cmd
}

// handleSessionExpired tears the session down: polling stops, the
// store clears, and the user lands back at the login boundary.
func (m Model) handleSessionExpired() (tea.Model, tea.Cmd) {
	m.poller.Stop()
	m.statuses.ReplaceAll(nil)
	m.user = nil
	m.currentView = ViewLogin
	return m, m.loginView.Start("Session expired, please log in again.")
}

// handleAccountMutation notifies the outcome of an account change and
// nudges the poller so the new list shows up promptly.
func (m Model) handleAccountMutation(msg accounts.MutatedMsg) tea.Cmd {
	if msg.Err != nil {
		if api.IsAuthError(msg.Err) {
			// Re-dispatch through Update for a full teardown.
			return func() tea.Msg {
				return syncmon.CommandFailedMsg{Err: msg.Err}
			}
		}
		return m.center.Push(notify.KindError, "Account Error",
			fmt.Sprintf("Failed: account %s: %v", msg.Action, msg.Err))
	}

	m.poller.Refresh()
	switch msg.Action {
	case "deleted":
		return m.center.Push(notify.KindInfo, "Account Deleted",
			fmt.Sprintf("%s has been removed.", msg.Name))
	case "updated":
		return m.center.Push(notify.KindSuccess, "Account Updated",
			fmt.Sprintf("%s has been saved.", msg.Name))
	default:
		return m.center.Push(notify.KindSuccess, "Account Added",
			fmt.Sprintf("%s is ready to sync.", msg.Name))
	}
}

// pushTestResult converts a probe outcome into a notification.
func (m Model) pushTestResult(msg syncmon.TestCompletedMsg) tea.Cmd {
	title := "Connection Test"
	if msg.Kind == syncmon.TestEmailCount {
		title = "Mailbox Test"
	}

	if msg.Err != nil {
		if api.IsAuthError(msg.Err) {
			return func() tea.Msg {
				return syncmon.CommandFailedMsg{Err: msg.Err}
			}
		}
		return m.center.Push(notify.KindError, title+" Failed",
			fmt.Sprintf("%v", msg.Err))
	}

	body := msg.Result.Message
	if msg.Result.Count != nil {
		body = fmt.Sprintf("%s (%d messages)", body, *msg.Result.Count)
	}
	kind := notify.KindSuccess
	if !msg.Result.Success {
		kind = notify.KindError
	}
	return m.center.Push(kind, title, body)
}

// cacheAccounts mirrors the latest account list into the session
// cache in the background.
func (m Model) cacheAccounts(list []model.Account) tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		if err := cache.ReplaceAccounts(context.Background(), list); err != nil && m.logger != nil {
			m.logger.Warn("caching accounts failed", "error", err)
		}
		return cacheAccountsMsg{}
	}
}

// View renders the active view inside the shared chrome.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	var content, hints string
	switch m.currentView {
	case ViewSync:
		content = m.syncView.View()
		hints = m.syncView.Hints()
	case ViewAccounts:
		content = m.accountsView.View()
		hints = m.accountsView.Hints()
	case ViewSearch:
		content = m.searchView.View()
		hints = m.searchView.Hints()
	case ViewAnalytics:
		content = m.analyticsView.View()
		hints = m.analyticsView.Hints()
	case ViewHelp:
		content = m.helpView.View()
		hints = "esc back"
	}

	header := m.layout.RenderHeader("maildash", m.headerStatus())
	toasts := ui.RenderToasts(m.center.Items(), m.layout.ContentWidth())
	statusBar := m.layout.RenderStatusBar(hints + " · 1-4 views · q quit")

	parts := []string{header, content}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// headerStatus summarizes polling health for the header's right side.
func (m Model) headerStatus() string {
	if m.lastBatchErr != nil {
		return "offline"
	}

	running := 0
	for _, st := range m.statuses.Snapshot() {
		if st.State == model.StateRunning {
			running++
		}
	}
	if running > 0 {
		return fmt.Sprintf("%d syncing", running)
	}
	if m.user != nil {
		return m.user.Email
	}
	return "idle"
}
