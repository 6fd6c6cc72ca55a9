package store

import (
	"context"

	"github.com/nhle/todo-client/internal/model"
)

// NotificationFilter controls which history entries are returned.
type NotificationFilter struct {
	UserEmail  *string // nil for every user
	UnreadOnly bool
	Limit      int
}

// Store defines the persistence interface for the local notification
// history. Todos themselves are never persisted locally.
type Store interface {
	CreateNotification(ctx context.Context, userEmail string, n model.Notification) (model.Notification, error)
	GetNotifications(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)
	CountUnread(ctx context.Context, userEmail string) (int, error)
	MarkAllRead(ctx context.Context, userEmail string) error
	DeleteNotifications(ctx context.Context, userEmail string) error
}
