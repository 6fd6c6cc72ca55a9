package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/tests/testutil"
)

func TestLoadMarksRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	_, err := s.CreateNotification(ctx, "budi@example.com", model.Notification{
		Kind: model.NotificationError, Message: "Gagal menghapus todo.", CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	m := New(s, keys.DefaultKeyMap(), 80, 20)
	msg, ok := m.Load("budi@example.com")().(LoadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	require.Len(t, msg.Items, 1)

	m, _ = m.Update(msg)
	assert.Contains(t, m.viewport.View(), "Gagal menghapus todo.")

	n, err := s.CountUnread(ctx, "budi@example.com")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClearEmptiesHistory(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	_, err := s.CreateNotification(ctx, "budi@example.com", model.Notification{Message: "Login berhasil!"})
	require.NoError(t, err)

	m := New(s, keys.DefaultKeyMap(), 80, 20)
	cleared, ok := m.Clear("budi@example.com")().(ClearedMsg)
	require.True(t, ok)
	require.NoError(t, cleared.Err)

	m, cmd := m.Update(cleared)
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Contains(t, m.viewport.View(), "Belum ada notifikasi.")
}
