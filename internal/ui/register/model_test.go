package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/validate"
)

func validRegistration() validate.Registration {
	return validate.Registration{
		FirstName:       "Siti",
		LastName:        "Aminah",
		Email:           "siti@example.com",
		Country:         "Malaysia",
		Phone:           "123456789",
		Password:        "rahasia1",
		ConfirmPassword: "rahasia1",
	}
}

func TestStartDefaultsCountry(t *testing.T) {
	m := New(80, 24)
	*m.fb = validRegistration()

	m.Start()
	assert.Equal(t, model.DefaultCountry, m.fb.Country)
	assert.Empty(t, m.fb.Email)
	assert.NotNil(t, m.form)
}

func TestSubmitValidRegistration(t *testing.T) {
	m := New(80, 24)
	m.Start()
	*m.fb = validRegistration()

	cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	assert.True(t, m.pending)

	msg, ok := cmd().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "Siti Aminah", msg.Registration.FullName())
	assert.Equal(t, "+60123456789", msg.Registration.PhoneNumber())
}

func TestSubmitInvalidKeepsEntries(t *testing.T) {
	m := New(80, 24)
	m.Start()
	reg := validRegistration()
	reg.ConfirmPassword = "berbeda"
	*m.fb = reg

	cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	assert.False(t, m.pending)
	assert.Equal(t, "siti@example.com", m.fb.Email)
}

func TestRetryKeepsEntries(t *testing.T) {
	m := New(80, 24)
	m.Start()
	*m.fb = validRegistration()
	m.pending = true

	m.Retry()
	assert.False(t, m.pending)
	assert.Equal(t, "Siti", m.fb.FirstName)
}

func TestCountryOptionsCoverASEAN(t *testing.T) {
	opts := countryOptions()
	require.Len(t, opts, len(model.Countries))
	assert.Equal(t, "Indonesia (+62)", opts[0].Key)
	assert.Equal(t, "Indonesia", opts[0].Value)
}
