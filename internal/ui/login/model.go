package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/validate"
)

// SubmitMsg is dispatched when the user submits valid credentials.
type SubmitMsg struct {
	Email    string
	Password string
	Remember bool
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// InvalidMsg reports credentials that completed the form but failed
// validation once trimmed.
type InvalidMsg struct {
	Err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
	remember bool
}

// Model is the Bubble Tea model for the login screen.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	pending bool
	width   int
	height  int
}

// New creates a new login form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the form. The email is kept so a failed attempt or a
// completed registration does not make the user retype it.
func (m *Model) Start(email string) tea.Cmd {
	m.fb.email = email
	m.fb.password = ""
	m.fb.remember = false
	m.pending = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetPending marks a login request as in flight.
func (m *Model) SetPending(pending bool) {
	m.pending = pending
}

// Pending reports whether a login request is in flight.
func (m Model) Pending() bool {
	return m.pending
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.pending {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.handleSubmit()
		return m, submit
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the login form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := theme.TitleStyle.Render("Masuk")
	subtitle := theme.SubtitleStyle.Render("Masuk untuk mengelola todo kamu.")

	body := m.form.View()
	if m.pending {
		body = theme.HelpStyle.Render("Memproses...")
	}

	hint := theme.HelpStyle.Render("ctrl+r: daftar akun baru  •  ctrl+s: pengaturan")
	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", body, "", hint)

	return theme.PanelStyle.Width(m.formWidth()).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth() - 4)
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("nama@email.com").
				Value(&m.fb.email).
				Validate(validate.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validate.Required("Password")),
			huh.NewConfirm().
				Title("Ingat saya").
				Affirmative("Ya").
				Negative("Tidak").
				Value(&m.fb.remember),
		),
	).WithWidth(m.formWidth() - 4).WithShowHelp(false)
}

func (m *Model) handleSubmit() tea.Cmd {
	creds := validate.Login{
		Email:    strings.TrimSpace(m.fb.email),
		Password: m.fb.password,
	}
	if err := creds.Validate(); err != nil {
		m.form = m.buildForm()
		cmd := m.form.Init()
		return tea.Batch(cmd, func() tea.Msg { return InvalidMsg{Err: err} })
	}

	m.pending = true
	msg := SubmitMsg{
		Email:    creds.Email,
		Password: creds.Password,
		Remember: m.fb.remember,
	}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 64 {
		w = 64
	}
	return w
}
