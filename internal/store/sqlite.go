package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/todo-client/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// notificationRow mirrors the notifications table.
type notificationRow struct {
	ID        string    `db:"id"`
	UserEmail string    `db:"user_email"`
	Kind      string    `db:"kind"`
	Message   string    `db:"message"`
	Read      int       `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}

func (r notificationRow) toModel() model.Notification {
	return model.Notification{
		ID:        r.ID,
		Kind:      r.Kind,
		Message:   r.Message,
		Read:      r.Read != 0,
		CreatedAt: r.CreatedAt,
	}
}

// CreateNotification inserts a new notification record for userEmail.
// ID and CreatedAt are filled in when empty.
func (s *SQLiteStore) CreateNotification(
	ctx context.Context,
	userEmail string,
	n model.Notification,
) (model.Notification, error) {
	if strings.TrimSpace(n.Message) == "" {
		return model.Notification{}, fmt.Errorf("notification message must not be empty")
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.Kind == "" {
		n.Kind = model.NotificationSuccess
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_email, kind, message, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, userEmail, n.Kind, n.Message,
		boolToInt(n.Read), n.CreatedAt.UTC(),
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("creating notification: %w", err)
	}

	return n, nil
}

// GetNotifications retrieves notifications newest first.
func (s *SQLiteStore) GetNotifications(
	ctx context.Context,
	filter NotificationFilter,
) ([]model.Notification, error) {
	var conditions []string
	var args []interface{}

	if filter.UserEmail != nil {
		conditions = append(conditions, "user_email = ?")
		args = append(args, *filter.UserEmail)
	}
	if filter.UnreadOnly {
		conditions = append(conditions, "read = 0")
	}

	query := "SELECT id, user_email, kind, message, read, created_at FROM notifications"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var rows []notificationRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, r := range rows {
		notifications[i] = r.toModel()
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for userEmail.
func (s *SQLiteStore) CountUnread(ctx context.Context, userEmail string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM notifications WHERE user_email = ? AND read = 0",
		userEmail,
	)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

// MarkAllRead marks every notification of userEmail as read.
func (s *SQLiteStore) MarkAllRead(ctx context.Context, userEmail string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE user_email = ? AND read = 0",
		userEmail,
	)
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// DeleteNotifications removes the whole history of userEmail.
func (s *SQLiteStore) DeleteNotifications(ctx context.Context, userEmail string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE user_email = ?", userEmail,
	)
	if err != nil {
		return fmt.Errorf("deleting notifications: %w", err)
	}
	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
