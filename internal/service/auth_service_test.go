package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth() *AuthService {
	return NewAuthService("quizmaster", "s3cret", "test-signing-key")
}

func TestLogin(t *testing.T) {
	svc := newTestAuth()

	resp, err := svc.Login("quizmaster", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.HostID, "host_")

	claims, err := svc.ValidateHostToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.HostID, claims.HostID)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuth()

	_, err := svc.Login("quizmaster", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateRejectsForeignToken(t *testing.T) {
	svc := newTestAuth()
	other := NewAuthService("quizmaster", "s3cret", "different-key")

	resp, err := other.Login("quizmaster", "s3cret")
	require.NoError(t, err)

	_, err = svc.ValidateHostToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateHostToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
