package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/store"
	"github.com/nhle/todo-client/internal/theme"
)

// pageSize caps how many notifications are loaded into the viewport.
const pageSize = 200

// BackMsg signals the parent to navigate back to the todo list.
type BackMsg struct{}

// LoadedMsg carries notifications read from the store.
type LoadedMsg struct {
	Items []model.Notification
	Err   error
}

// ClearedMsg is sent after the history for the user has been deleted.
type ClearedMsg struct {
	Err error
}

// Model is the notification history view.
type Model struct {
	viewport  viewport.Model
	store     store.Store
	keys      *keys.KeyMap
	userEmail string
	items     []model.Notification
	err       error
	loading   bool
	width     int
	height    int
}

// New creates a new history view model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, max(height-2, 1))
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		store:    s,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Load reads the history for userEmail and marks it read.
func (m *Model) Load(userEmail string) tea.Cmd {
	m.userEmail = userEmail
	m.loading = true
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		items, err := s.GetNotifications(ctx, store.NotificationFilter{
			UserEmail: &userEmail,
			Limit:     pageSize,
		})
		if err != nil {
			return LoadedMsg{Err: err}
		}
		if err := s.MarkAllRead(ctx, userEmail); err != nil {
			return LoadedMsg{Items: items, Err: err}
		}
		return LoadedMsg{Items: items}
	}
}

// Clear deletes the history for userEmail.
func (m *Model) Clear(userEmail string) tea.Cmd {
	m.userEmail = userEmail
	s := m.store
	return func() tea.Msg {
		return ClearedMsg{Err: s.DeleteNotifications(context.Background(), userEmail)}
	}
}

// Update handles messages for the history view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		m.items = msg.Items
		m.err = msg.Err
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case ClearedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.viewport.SetContent(m.renderContent())
			return m, nil
		}
		cmd := m.Load(m.userEmail)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.History):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.ClearHistory):
			cmd := m.Clear(m.userEmail)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the history panel.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Riwayat Notifikasi")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View())
}

func (m Model) renderContent() string {
	if m.loading {
		return theme.HelpStyle.Render("Memuat...")
	}

	var b strings.Builder
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorRed).
			Render(fmt.Sprintf("Gagal membaca riwayat: %v", m.err)))
		b.WriteString("\n\n")
	}
	if len(m.items) == 0 {
		b.WriteString(theme.HelpStyle.Render("Belum ada notifikasi."))
		return b.String()
	}

	for _, n := range m.items {
		icon := lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("●")
		if n.IsError() {
			icon = lipgloss.NewStyle().Foreground(theme.ColorRed).Render("●")
		}
		stamp := lipgloss.NewStyle().Foreground(theme.ColorGray).
			Render(n.CreatedAt.Local().Format("02 Jan 15:04"))
		text := n.Message
		if !n.Read {
			text = lipgloss.NewStyle().Bold(true).Render(text)
		}
		fmt.Fprintf(&b, "%s %s  %s\n", icon, stamp, text)
	}
	return b.String()
}

// SetSize updates the history view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	m.viewport.SetContent(m.renderContent())
}
