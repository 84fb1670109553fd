package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity/internal/domain"
)

func newTestService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestHMACService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "a@b.c", domain.RoleStudent, true)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, domain.RoleStudent, claims.Role)
	assert.True(t, claims.OnboardingCompleted)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.False(t, svc.IsRefreshToken(claims))
}

func TestHMACService_RefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(userID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.True(t, svc.IsRefreshToken(claims))
}

func TestHMACService_TamperedTokenRejected(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(uuid.New(), "a@b.c", domain.RoleStudent, false)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateToken("not.a.token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHMACService_WrongSecretRejected(t *testing.T) {
	token, err := newTestService().GenerateAccessToken(uuid.New(), "a@b.c", domain.RoleStudent, false)
	require.NoError(t, err)

	other := NewHMACService("different", "also-different", 15*time.Minute, 7*24*time.Hour)
	_, err = other.ValidateToken(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHMACService_ExpiredTokenRejected(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.GenerateAccessToken(uuid.New(), "a@b.c", domain.RoleStudent, false)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}
