package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusportal/internal/domain"
)

func TestService_RoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.GenerateToken(42, domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestService_WrongSecret(t *testing.T) {
	token, err := New("secret-a", time.Hour).GenerateToken(42, domain.RoleUser)
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ExpiredToken(t *testing.T) {
	svc := New("test-secret", -time.Minute)

	token, err := svc.GenerateToken(42, domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ZeroTTLUsesDefault(t *testing.T) {
	svc := New("test-secret", 0)

	token, err := svc.GenerateToken(7, domain.RoleUser)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.After(time.Now().Add(23*time.Hour)))
}

func TestService_ValidateBearer(t *testing.T) {
	svc := New("test-secret", time.Hour)
	token, err := svc.GenerateToken(42, domain.RoleUser)
	require.NoError(t, err)

	claims, err := svc.ValidateBearer("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)

	_, err = svc.ValidateBearer("")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = svc.ValidateBearer("Basic dGVzdA==")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = svc.ValidateBearer("Bearer ")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = svc.ValidateBearer("Bearer not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
