package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", "storefront-test", time.Hour)

	token, expiresAt, err := m.GenerateSessionToken("u1", "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "storefront-test", claims.Issuer)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("test-secret", "storefront-test", time.Hour)
	token, _, err := m.GenerateSessionToken("u1", "sid-1")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewManager("other", "storefront-test", time.Hour).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewManager("test-secret", "someone-else", time.Hour).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewManager("test-secret", "storefront-test", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("missing session id", func(t *testing.T) {
		noSession, _, err := m.GenerateSessionToken("u1", "")
		require.NoError(t, err)
		_, err = m.ValidateToken(noSession)
		assert.ErrorIs(t, err, ErrMissingSession)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}
