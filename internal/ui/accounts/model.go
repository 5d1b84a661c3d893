package accounts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/dtran/maildash/internal/api"
	"github.com/dtran/maildash/internal/keys"
	"github.com/dtran/maildash/internal/model"
	"github.com/dtran/maildash/internal/theme"
)

// MutatedMsg tells the app that the account list changed on the
// server, so it can notify and re-poll.
type MutatedMsg struct {
	Action    string // "created", "updated", or "deleted"
	Name      string
	Err       error
	AccountID string
}

// TestConnectionRequestedMsg asks the app to probe connectivity for
// the selected account.
type TestConnectionRequestedMsg struct{ AccountID string }

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name       string
	email      string
	imapHost   string
	imapPort   string
	username   string
	password   string
	authMethod string
	useSSL     bool
}

// Model is the account management view: a table of configured
// accounts plus a huh form for registering new ones.
type Model struct {
	client   *api.Client
	keys     *keys.KeyMap
	table    table.Model
	accounts []model.Account
	form     *huh.Form
	fb       *formBindings
	adding   bool
	editID   string // non-empty while editing an existing account
	width    int
	height   int
}

// New creates the accounts view.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 28},
		{Title: "Host", Width: 24},
		{Title: "Active", Width: 8},
		{Title: "Connected", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height-4),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(theme.ColorBlue)
	styles.Selected = styles.Selected.Foreground(theme.ColorWhite).Background(theme.ColorSubtle)
	t.SetStyles(styles)

	return Model{
		client: client,
		keys:   k,
		table:  t,
		fb:     &formBindings{authMethod: string(model.AuthPlain), imapPort: "993", useSSL: true},
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(height - 4)
}

// Editing reports whether the add-account form owns key input.
func (m Model) Editing() bool {
	return m.adding
}

// SetAccounts refreshes the table contents.
func (m *Model) SetAccounts(accounts []model.Account) {
	m.accounts = accounts

	rows := make([]table.Row, len(accounts))
	for i, a := range accounts {
		rows[i] = table.Row{
			a.Name,
			a.Email,
			fmt.Sprintf("%s:%d", a.IMAPHost, a.IMAPPort),
			yesNo(a.IsActive),
			yesNo(a.IsConnected),
		}
	}
	m.table.SetRows(rows)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// selected returns the account under the cursor.
func (m Model) selected() (model.Account, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return model.Account{}, false
	}
	return m.accounts[idx], true
}

// Update handles messages for the accounts view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.adding {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.AddAccount):
		m.adding = true
		m.editID = ""
		m.fb.name = ""
		m.fb.email = ""
		m.fb.imapHost = ""
		m.fb.imapPort = "993"
		m.fb.username = ""
		m.fb.password = ""
		m.fb.authMethod = string(model.AuthPlain)
		m.fb.useSSL = true
		m.form = m.buildForm()
		return m, m.form.Init()

	case key.Matches(keyMsg, m.keys.EditAccount):
		account, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.adding = true
		m.editID = account.ID
		m.fb.name = account.Name
		m.fb.email = account.Email
		m.fb.imapHost = account.IMAPHost
		m.fb.imapPort = strconv.Itoa(account.IMAPPort)
		m.fb.username = account.Username
		m.fb.password = "" // never echoed back; blank leaves it unchanged
		m.fb.authMethod = string(account.AuthMethod)
		m.fb.useSSL = account.UseSSL
		m.form = m.buildForm()
		return m, m.form.Init()

	case key.Matches(keyMsg, m.keys.DeleteAccount):
		account, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.deleteAccount(account)

	case key.Matches(keyMsg, m.keys.TestConnection):
		account, ok := m.selected()
		if !ok {
			return m, nil
		}
		id := account.ID
		return m, func() tea.Msg { return TestConnectionRequestedMsg{AccountID: id} }
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// updateForm drives the huh form while it is open.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.adding = false
		m.editID = ""
		m.form = nil
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.adding = false
		if m.editID != "" {
			id := m.editID
			m.editID = ""
			data, err := m.fb.toUpdate()
			if err != nil {
				return m, func() tea.Msg {
					return MutatedMsg{Action: "updated", Name: m.fb.name, Err: err, AccountID: id}
				}
			}
			return m, m.updateAccount(id, data)
		}
		data, err := m.fb.toCreate()
		if err != nil {
			return m, func() tea.Msg {
				return MutatedMsg{Action: "created", Name: m.fb.name, Err: err}
			}
		}
		return m, m.createAccount(data)
	}

	return m, cmd
}

// buildForm constructs the add-account form.
func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Display name").
				Value(&m.fb.name).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Email address").
				Value(&m.fb.email).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("IMAP host").
				Value(&m.fb.imapHost).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("IMAP port").
				Value(&m.fb.imapPort).
				Validate(func(s string) error {
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("port must be a number")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Auth method").
				Options(
					huh.NewOption("PLAIN", string(model.AuthPlain)),
					huh.NewOption("LOGIN", string(model.AuthLogin)),
					huh.NewOption("OAUTH2", string(model.AuthOAuth2)),
				).
				Value(&m.fb.authMethod),
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password),
			huh.NewConfirm().
				Title("Use SSL/TLS").
				Value(&m.fb.useSSL),
		),
	).WithWidth(min(m.width-4, 72))
}

// toCreate converts the form bindings into the API request body.
func (fb *formBindings) toCreate() (model.CreateAccount, error) {
	port, err := strconv.Atoi(fb.imapPort)
	if err != nil {
		return model.CreateAccount{}, fmt.Errorf("invalid IMAP port %q", fb.imapPort)
	}
	return model.CreateAccount{
		Name:       fb.name,
		Email:      fb.email,
		IMAPHost:   fb.imapHost,
		IMAPPort:   port,
		UseSSL:     fb.useSSL,
		AuthMethod: model.AuthMethod(fb.authMethod),
		Username:   fb.username,
		Password:   fb.password,
	}, nil
}

// toUpdate converts the form bindings into a partial update body. A
// blank password is omitted so the server keeps the stored one.
func (fb *formBindings) toUpdate() (model.UpdateAccount, error) {
	port, err := strconv.Atoi(fb.imapPort)
	if err != nil {
		return model.UpdateAccount{}, fmt.Errorf("invalid IMAP port %q", fb.imapPort)
	}
	auth := model.AuthMethod(fb.authMethod)

	data := model.UpdateAccount{
		Name:       &fb.name,
		IMAPHost:   &fb.imapHost,
		IMAPPort:   &port,
		UseSSL:     &fb.useSSL,
		AuthMethod: &auth,
		Username:   &fb.username,
	}
	if fb.password != "" {
		data.Password = &fb.password
	}
	return data, nil
}

// createAccount submits the new account in the background.
func (m Model) createAccount(data model.CreateAccount) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		account, err := client.CreateAccount(context.Background(), data)
		msg := MutatedMsg{Action: "created", Name: data.Name, Err: err}
		if account != nil {
			msg.AccountID = account.ID
		}
		return msg
	}
}

// updateAccount submits the edited fields in the background.
func (m Model) updateAccount(id string, data model.UpdateAccount) tea.Cmd {
	client := m.client
	name := m.fb.name
	return func() tea.Msg {
		_, err := client.UpdateAccount(context.Background(), id, data)
		return MutatedMsg{Action: "updated", Name: name, Err: err, AccountID: id}
	}
}

// deleteAccount removes the account in the background.
func (m Model) deleteAccount(account model.Account) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteAccount(context.Background(), account.ID)
		return MutatedMsg{
			Action:    "deleted",
			Name:      account.Name,
			Err:       err,
			AccountID: account.ID,
		}
	}
}

// View renders the table or the add form.
func (m Model) View() string {
	if m.adding && m.form != nil {
		return m.form.View()
	}
	return m.table.View()
}

// Hints returns the status-bar hint line for this view.
func (m Model) Hints() string {
	if m.adding {
		return "enter next · esc cancel"
	}
	return "a add · e edit · x delete · t test connection · ? help"
}
