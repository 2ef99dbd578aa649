package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret_RoundTrip(t *testing.T) {
	digest, salt, err := HashSecret("correct horse")
	require.NoError(t, err)
	assert.Len(t, salt, saltLen*2)
	assert.Len(t, digest, scryptKeyLen*2)

	assert.True(t, VerifySecret("correct horse", digest, salt))
	assert.False(t, VerifySecret("correct horse ", digest, salt))
	assert.False(t, VerifySecret("", digest, salt))
}

func TestHashSecret_FreshSalt(t *testing.T) {
	d1, s1, err := HashSecret("same")
	require.NoError(t, err)
	d2, s2, err := HashSecret("same")
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, d1, d2)
}

func TestVerifySecret_MalformedDigest(t *testing.T) {
	assert.False(t, VerifySecret("x", "not-hex", "abcd"))
	assert.False(t, VerifySecret("x", "abcd", "abcd"))
}

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "fluffy", NormalizeAnswer("  Fluffy "))
	assert.Equal(t, NormalizeAnswer("BLUE"), NormalizeAnswer("blue"))
}
