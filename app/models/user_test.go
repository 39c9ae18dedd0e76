package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	user, err := CreateUser("Jane Doe", "jane@example.com", "secret-password", "AAAA1111")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, ROLE_USER, user.Role)
	assert.Equal(t, STATUS_ACTIVE, user.Status)
	assert.Equal(t, "AAAA1111", user.ReferralCode)
	assert.Equal(t, "basic", user.PlanType)
	assert.Zero(t, user.BonusCredits)

	// The password is stored hashed, never verbatim.
	assert.NotEqual(t, "secret-password", user.Password)
	assert.True(t, user.CheckPassword("secret-password"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		code     string
	}{
		{name: "short name", userName: "ab", email: "jane@example.com", password: "secret-password", code: "AAAA1111"},
		{name: "bad email", userName: "Jane Doe", email: "not-an-email", password: "secret-password", code: "AAAA1111"},
		{name: "short password", userName: "Jane Doe", email: "jane@example.com", password: "short", code: "AAAA1111"},
		{name: "short referral code", userName: "Jane Doe", email: "jane@example.com", password: "secret-password", code: "AAA"},
		{name: "missing referral code", userName: "Jane Doe", email: "jane@example.com", password: "secret-password", code: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateUser(tt.userName, tt.email, tt.password, tt.code)
			assert.Error(t, err)
		})
	}
}

func TestSetPassword(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("new-password"))
	assert.True(t, user.CheckPassword("new-password"))
}

func TestIsActive(t *testing.T) {
	assert.True(t, (&User{Status: STATUS_ACTIVE}).IsActive())
	assert.False(t, (&User{Status: STATUS_DISABLED}).IsActive())
	assert.False(t, (&User{Status: STATUS_INACTIVE}).IsActive())
}
