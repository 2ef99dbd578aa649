package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessionToken_RoundTrip(t *testing.T) {
	token, err := GenerateSessionToken(42, "sess-1", testSecret, time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestSessionToken_Rejected(t *testing.T) {
	token, err := GenerateSessionToken(1, "sess-2", testSecret, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "another-secret-another-secret-xx")
	assert.Error(t, err)

	expired, err := GenerateSessionToken(1, "sess-3", testSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = ParseSessionToken(expired, testSecret)
	assert.Error(t, err)

	_, err = ParseSessionToken("garbage", testSecret)
	assert.Error(t, err)
}
