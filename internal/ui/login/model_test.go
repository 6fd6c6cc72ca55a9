package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartKeepsEmailAndClearsPassword(t *testing.T) {
	m := New(80, 24)
	m.fb.password = "old"
	m.fb.remember = true
	m.SetPending(true)

	m.Start("budi@example.com")

	assert.Equal(t, "budi@example.com", m.fb.email)
	assert.Empty(t, m.fb.password)
	assert.False(t, m.fb.remember)
	assert.False(t, m.Pending())
}

func TestSubmitTrimsEmail(t *testing.T) {
	m := New(80, 24)
	m.Start("")
	m.fb.email = "  budi@example.com "
	m.fb.password = "rahasia1"
	m.fb.remember = true

	msg, ok := m.handleSubmit()().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, SubmitMsg{Email: "budi@example.com", Password: "rahasia1", Remember: true}, msg)
}

func TestPendingIgnoresInput(t *testing.T) {
	m := New(80, 24)
	m.Start("")
	m.SetPending(true)

	_, cmd := m.Update(nil)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Memproses...")
}

func TestSubmitRejectsInvalidCredentials(t *testing.T) {
	m := New(80, 24)
	m.Start("")
	m.fb.email = "not-an-email"
	m.fb.password = "   "

	cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	assert.False(t, m.Pending())
	assert.Equal(t, "not-an-email", m.fb.email, "entries survive the rebuilt form")
	assert.NotContains(t, m.View(), "Memproses...")
}

func TestSubmitValidMarksPending(t *testing.T) {
	m := New(80, 24)
	m.Start("budi@example.com")
	m.fb.password = "rahasia1"

	msg, ok := m.handleSubmit()().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "budi@example.com", msg.Email)
	assert.True(t, m.Pending())
}
