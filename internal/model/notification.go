package model

import "time"

// Notification kinds.
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
)

// Notification is a transient message shown to the user after an
// operation settles. Every notification is also kept in the local history.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Kind is NotificationSuccess or NotificationError.
	Kind string `json:"kind"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Read indicates whether the user has opened the history since
	// this notification was recorded.
	Read bool `json:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}

// IsError reports whether the notification describes a failure.
func (n Notification) IsError() bool {
	return n.Kind == NotificationError
}
