package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	tok, exp, err := m.GenerateAccessToken(42, "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	refresh, _, err := m.GenerateRefreshToken(7, "sid")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(refresh)
	assert.Error(t, err)

	claims, err := m.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access", "refresh", -time.Minute, time.Hour)

	tok, _, err := m.GenerateAccessToken(1, "sid")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	assert.Error(t, err)
}
