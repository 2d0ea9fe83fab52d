package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiry time.Duration) *Service {
	return NewService(ServiceConfig{
		SigningKey:  "test-signing-key-for-unit-tests",
		Issuer:      "https://api.droproute.test",
		Audience:    "droproute-api",
		TokenExpiry: expiry,
	})
}

func TestService_IssueAndValidate(t *testing.T) {
	service := newTestService(0)

	token, expiresAt, err := service.IssueAccessToken("operator-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), expiresAt, 5*time.Second)

	operator, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator-1", operator)
}

func TestService_ValidateAccessToken_Expired(t *testing.T) {
	service := newTestService(-time.Minute)

	token, _, err := service.IssueAccessToken("operator-1")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrAccessTokenExpired)
}

func TestService_ValidateAccessToken_WrongKey(t *testing.T) {
	service := newTestService(0)
	other := NewService(ServiceConfig{
		SigningKey: "a-different-key",
		Issuer:     "https://api.droproute.test",
		Audience:   "droproute-api",
	})

	token, _, err := other.IssueAccessToken("operator-1")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestService_ValidateAccessToken_WrongAudience(t *testing.T) {
	service := newTestService(0)
	other := NewService(ServiceConfig{
		SigningKey: "test-signing-key-for-unit-tests",
		Issuer:     "https://api.droproute.test",
		Audience:   "some-other-api",
	})

	token, _, err := other.IssueAccessToken("operator-1")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestService_ValidateAccessToken_Garbage(t *testing.T) {
	service := newTestService(0)

	_, err := service.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}
