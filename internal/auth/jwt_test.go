package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars!!"

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret, 15*time.Minute)

	token, expiresAt, err := svc.Issue("user-123", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc := NewTokenService(testSecret, -time.Minute)

	token, _, err := svc.Issue("user-123", "user")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := NewTokenService(testSecret, 15*time.Minute)
	other := NewTokenService("completely-different-secret-value!!", 15*time.Minute)

	token, _, err := svc.Issue("user-123", "user")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	svc := NewTokenService(testSecret, 15*time.Minute)

	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
