package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/addressbook/internal/auth"
)

func TestGenerateAndValidate(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)

	token, err := m.Generate(7, "neema@example.com", "customer")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "neema@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewJWTManager("secret-a", time.Hour).Generate(7, "x@example.com", "customer")
	require.NoError(t, err)

	_, err = auth.NewJWTManager("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := auth.NewJWTManager("secret", -time.Minute)

	token, err := m.Generate(7, "x@example.com", "customer")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)
	_, err := m.Validate("not.a.token")
	assert.Error(t, err)
}

func TestMiddlewareValidator(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)
	token, err := m.Generate(9, "asha@example.com", "admin")
	require.NoError(t, err)

	claims, err := m.MiddlewareValidator()(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
