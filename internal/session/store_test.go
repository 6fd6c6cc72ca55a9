package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-client/internal/credential"
	"github.com/nhle/todo-client/internal/model"
)

func newTestStore() (*Store, *credential.Keyring, *credential.Keyring) {
	durable := credential.Memory()
	ephemeral := credential.Memory()
	return New(durable, ephemeral), durable, ephemeral
}

var alice = model.Session{
	User:  model.User{ID: "u1", FullName: "alice smith", Email: "alice@example.com"},
	Token: "tok-1",
}

func TestSetWithoutRememberUsesSessionTier(t *testing.T) {
	s, durable, ephemeral := newTestStore()

	require.NoError(t, s.Set(alice, false))
	assert.Equal(t, "tok-1", s.Token())

	got, err := ephemeral.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	_, err = durable.Get(KeyToken)
	assert.ErrorIs(t, err, credential.ErrNotFound)
}

func TestSetWithRememberUsesDurableTier(t *testing.T) {
	s, durable, ephemeral := newTestStore()

	require.NoError(t, s.Set(alice, true))

	token, err := durable.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	email, err := durable.Get(KeyUserEmail)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	_, err = ephemeral.Get(KeyToken)
	assert.ErrorIs(t, err, credential.ErrNotFound)
}

func TestSetOverwritesPriorSession(t *testing.T) {
	s, _, _ := newTestStore()

	require.NoError(t, s.Set(alice, false))
	bob := model.Session{User: model.User{ID: "u2", Email: "bob@example.com"}, Token: "tok-2"}
	require.NoError(t, s.Set(bob, false))

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "u2", cur.ID)
	assert.Equal(t, "tok-2", s.Token())
}

func TestClearWipesMemoryAndTiers(t *testing.T) {
	s, durable, ephemeral := newTestStore()
	require.NoError(t, s.Set(alice, true))
	require.NoError(t, ephemeral.Set(KeyToken, "stale"))

	require.NoError(t, s.Clear())

	assert.Empty(t, s.Token())
	assert.False(t, s.LoggedIn())
	_, ok := s.Current()
	assert.False(t, ok)

	for _, v := range []*credential.Keyring{durable, ephemeral} {
		_, err := v.Get(KeyToken)
		assert.ErrorIs(t, err, credential.ErrNotFound)
	}
}

func TestClearOnEmptyStoreIsNoop(t *testing.T) {
	s, _, _ := newTestStore()
	assert.NoError(t, s.Clear())
	assert.NoError(t, s.Clear())
}

func TestRestoreFromDurableTier(t *testing.T) {
	s, durable, _ := newTestStore()
	require.NoError(t, durable.Set(KeyToken, "tok-9"))
	require.NoError(t, durable.Set(KeyUserEmail, "carol@example.com"))

	ok, err := s.Restore()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "tok-9", s.Token())
	assert.Equal(t, "carol@example.com", s.DisplayName())
}

func TestRestoreWithNothingStored(t *testing.T) {
	s, _, _ := newTestStore()

	ok, err := s.Restore()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s.Token())
}

func TestDisplayNameAndInitial(t *testing.T) {
	s, _, _ := newTestStore()
	assert.Equal(t, "User", s.DisplayName())
	assert.Equal(t, "U", s.Initial())

	require.NoError(t, s.Set(alice, false))
	assert.Equal(t, "alice smith", s.DisplayName())
	assert.Equal(t, "A", s.Initial())

	require.NoError(t, s.Set(model.Session{User: model.User{Email: "e@x.io"}, Token: "t"}, false))
	assert.Equal(t, "e@x.io", s.DisplayName())
	assert.Equal(t, "U", s.Initial())
}
