package login

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtran/maildash/internal/api"
	"github.com/dtran/maildash/internal/model"
	"github.com/dtran/maildash/internal/theme"
)

// SucceededMsg tells the app a session was established.
type SucceededMsg struct{ User model.User }

// FailedMsg tells the app the credentials were rejected.
type FailedMsg struct{ Err error }

// formBindings keeps field values on the heap for huh.
type formBindings struct {
	email    string
	password string
}

// Model is the login boundary: a small huh form that exchanges
// credentials for a token pair stored in the keyring.
type Model struct {
	client  *api.Client
	form    *huh.Form
	fb      *formBindings
	message string
	width   int
	height  int
}

// New creates the login view.
func New(client *api.Client, width, height int) Model {
	return Model{
		client: client,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Start (re)initializes the form, optionally showing a reason the
// user landed here (e.g., an expired session).
func (m *Model) Start(message string) tea.Cmd {
	m.message = message
	m.fb.password = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(huh.ValidateNotEmpty()),
		),
	).WithWidth(48)
	return m.form.Init()
}

// Update drives the form and submits it when complete.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		client := m.client
		email, password := m.fb.email, m.fb.password
		return m, func() tea.Msg {
			user, err := client.Login(context.Background(), email, password)
			if err != nil {
				return FailedMsg{Err: err}
			}
			return SucceededMsg{User: *user}
		}
	}

	return m, cmd
}

// View renders the login form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	parts := []string{
		theme.HeaderStyle.Render("maildash login"),
	}
	if m.message != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.message))
	}
	parts = append(parts, m.form.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
