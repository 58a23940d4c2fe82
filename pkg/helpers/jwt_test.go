package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	tok, exp, err := m.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.SessionID)

	// an access token is not a refresh token
	_, err = m.ParseRefreshToken(tok)
	require.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("access", "refresh", -time.Minute, time.Hour)
	tok, _, err := m.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok)
	require.Error(t, err)
}

func TestJWTManager_Garbage(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)
	_, err := m.ParseAccessToken("not.a.token")
	require.Error(t, err)
}
