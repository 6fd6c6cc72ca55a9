package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/validate"
)

// toastDuration is how long a notification stays in the status bar.
var toastDuration = 4 * time.Second

// toastExpiredMsg hides the toast with the matching sequence number.
type toastExpiredMsg struct {
	seq int
}

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// notify shows a toast and records it in the history of the current user.
func (m *Model) notify(kind, text string) tea.Cmd {
	n := model.Notification{
		Kind:      kind,
		Message:   text,
		CreatedAt: time.Now(),
	}
	m.toastSeq++
	m.toast = &n
	seq := m.toastSeq

	expire := tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})

	email := m.userEmail()
	if m.deps.History == nil || email == "" {
		return expire
	}

	s := m.deps.History
	record := func() tea.Msg {
		ctx := context.Background()
		if _, err := s.CreateNotification(ctx, email, n); err != nil {
			log.Printf("recording notification: %v", err)
			return nil
		}
		count, err := s.CountUnread(ctx, email)
		if err != nil {
			log.Printf("counting unread notifications: %v", err)
			return nil
		}
		return unreadCountMsg{count: count}
	}
	return tea.Batch(expire, record)
}

// fetchUnreadCount returns a tea.Cmd that queries the store for the
// number of unread notifications of the current user.
func (m Model) fetchUnreadCount() tea.Cmd {
	email := m.userEmail()
	if m.deps.History == nil || email == "" {
		return nil
	}
	s := m.deps.History
	return func() tea.Msg {
		count, err := s.CountUnread(context.Background(), email)
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: count}
	}
}

// firstLine returns the message of the first failing field.
func firstLine(err error) string {
	var fe validate.FieldError
	if errors.As(err, &fe) {
		return fe.Err.Error()
	}
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}
