package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/store"
	"github.com/nhle/todo-client/tests/testutil"
)

func TestCreateAndListNotifications(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	first, err := s.CreateNotification(ctx, "a@b.co", model.Notification{
		Kind: model.NotificationSuccess, Message: "Todo berhasil ditambahkan!", CreatedAt: base,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = s.CreateNotification(ctx, "a@b.co", model.Notification{
		Kind: model.NotificationError, Message: "Gagal menghapus todo.", CreatedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	_, err = s.CreateNotification(ctx, "other@b.co", model.Notification{
		Message: "Login berhasil!", CreatedAt: base,
	})
	require.NoError(t, err)

	email := "a@b.co"
	got, err := s.GetNotifications(ctx, store.NotificationFilter{UserEmail: &email})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Gagal menghapus todo.", got[0].Message)
	assert.True(t, got[0].IsError())
	assert.Equal(t, first.ID, got[1].ID)

	all, err := s.GetNotifications(ctx, store.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUnreadLifecycle(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.CreateNotification(ctx, "a@b.co", model.Notification{Message: "x"})
		require.NoError(t, err)
	}

	n, err := s.CountUnread(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, s.MarkAllRead(ctx, "a@b.co"))

	n, err = s.CountUnread(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Zero(t, n)

	email := "a@b.co"
	unread, err := s.GetNotifications(ctx, store.NotificationFilter{UserEmail: &email, UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, s.DeleteNotifications(ctx, "a@b.co"))
	rest, err := s.GetNotifications(ctx, store.NotificationFilter{UserEmail: &email})
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestEmptyMessageRejected(t *testing.T) {
	s := testutil.NewTestStore(t)
	_, err := s.CreateNotification(context.Background(), "", model.Notification{Message: "  "})
	assert.Error(t, err)
}

func TestReopenKeepsSchema(t *testing.T) {
	path := t.TempDir() + "/history.db"

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = s.CreateNotification(context.Background(), "a@b.co", model.Notification{Message: "kept"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetNotifications(context.Background(), store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Message)
}
