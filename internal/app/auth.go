package app

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/ui/login"
	"github.com/nhle/todo-client/internal/validate"
)

// loginResultMsg is sent when a login request settles.
type loginResultMsg struct {
	email    string
	session  model.Session
	remember bool
	err      error
}

// registerResultMsg is sent when a registration request settles.
type registerResultMsg struct {
	email string
	err   error
}

// loginCmd authenticates against the API. The session is stored by the
// Update loop, never from the command goroutine.
func (m Model) loginCmd(req login.SubmitMsg) tea.Cmd {
	client := m.deps.API
	return func() tea.Msg {
		sess, err := client.Login(context.Background(), req.Email, req.Password)
		return loginResultMsg{email: req.Email, session: sess, remember: req.Remember, err: err}
	}
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("login failed for %s: %v", msg.email, msg.err)
		text := "Email atau password salah!"
		if api.IsTransport(msg.err) {
			text = "Tidak dapat terhubung ke server."
		}
		cmd := tea.Batch(m.loginView.Start(msg.email), m.notify(model.NotificationError, text))
		return m, cmd
	}

	if msg.session.User.Email == "" {
		msg.session.User.Email = msg.email
	}
	if err := m.deps.Session.Set(msg.session, msg.remember); err != nil {
		// The in-memory session is still set; only persistence failed.
		log.Printf("persisting session: %v", err)
	}

	m.loginView.SetPending(false)
	m.currentView = ViewTodos
	cmd := tea.Batch(
		m.todoList.Init(),
		m.notify(model.NotificationSuccess, "Login berhasil!"),
		m.fetchUnreadCount(),
	)
	return m, cmd
}

// registerCmd submits a validated registration.
func (m Model) registerCmd(reg validate.Registration) tea.Cmd {
	client := m.deps.API
	req := api.RegisterRequest{
		FullName:    reg.FullName(),
		Email:       reg.Email,
		Password:    reg.Password,
		PhoneNumber: reg.PhoneNumber(),
		Country:     reg.Country,
	}
	return func() tea.Msg {
		err := client.Register(context.Background(), req)
		return registerResultMsg{email: req.Email, err: err}
	}
}

func (m Model) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("registration failed for %s: %v", msg.email, msg.err)
		cmd := tea.Batch(
			m.registerView.Retry(),
			m.notify(model.NotificationError, "Registrasi gagal, coba lagi!"),
		)
		return m, cmd
	}

	m.currentView = ViewLogin
	cmd := tea.Batch(
		m.loginView.Start(msg.email),
		m.notify(model.NotificationSuccess, "Registrasi berhasil! Silakan login."),
	)
	return m, cmd
}

// logout clears both credential tiers and the todo cache and returns to
// the login form.
func (m Model) logout(text, kind string) (tea.Model, tea.Cmd) {
	// Record under the old identity before the session disappears.
	notify := m.notify(kind, text)

	if err := m.deps.Session.Clear(); err != nil {
		log.Printf("clearing session: %v", err)
	}
	m.deps.Sync.Reset()
	m.todoList.Reset()
	m.unreadCount = 0
	m.currentView = ViewLogin
	cmd := tea.Batch(m.loginView.Start(""), notify)
	return m, cmd
}

func (m Model) userEmail() string {
	sess, ok := m.deps.Session.Current()
	if !ok {
		return ""
	}
	return sess.User.Email
}
