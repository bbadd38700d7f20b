package user

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt, err := hashPassword("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEmpty(t, salt)

	ok, err := verifyPassword("correct horse battery", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("wrong password", salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	// Same password under a different salt must not verify against the
	// original hash.
	_, otherSalt, err := hashPassword("correct horse battery")
	require.NoError(t, err)
	ok, err = verifyPassword("correct horse battery", otherSalt, hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordBadEncoding(t *testing.T) {
	hash, salt, err := hashPassword("correct horse battery")
	require.NoError(t, err)

	_, err = verifyPassword("correct horse battery", "not base64!", hash)
	assert.Error(t, err)

	_, err = verifyPassword("correct horse battery", salt, "not base64!")
	assert.Error(t, err)

	// A truncated but validly encoded hash simply fails to match.
	truncated := base64.StdEncoding.EncodeToString([]byte("short"))
	ok, err := verifyPassword("correct horse battery", salt, truncated)
	require.NoError(t, err)
	assert.False(t, ok)
}
