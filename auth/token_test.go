package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "stocks-simulator", time.Hour)

	raw, err := tm.Issue("sid-123")
	require.NoError(t, err)

	sid, err := tm.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sid-123", sid)
}

func TestTokenRejectsForeignSecret(t *testing.T) {
	raw, err := NewTokenManager("secret", "stocks-simulator", time.Hour).Issue("sid")
	require.NoError(t, err)

	_, err = NewTokenManager("other", "stocks-simulator", time.Hour).Parse(raw)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "stocks-simulator", time.Minute)
	issued := time.Now().Add(-time.Hour)
	tm.now = func() time.Time { return issued }
	raw, err := tm.Issue("sid")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Parse(raw)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", "stocks-simulator", time.Hour).Parse("not-a-token")
	assert.Error(t, err)
}
