package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	digest, salt, err := HashPassword("stay-safe", nil)
	assert.Nil(t, err)
	assert.Len(t, digest, 64, "digest should be a hex encoded 32-byte key")
	assert.Len(t, salt, 32, "salt should be a hex encoded 16-byte value")

	saltBytes, err := hex.DecodeString(salt)
	assert.Nil(t, err)

	// Re-deriving with the same salt must be deterministic
	digest2, salt2, err := HashPassword("stay-safe", saltBytes)
	assert.Nil(t, err)
	assert.Equal(t, digest, digest2)
	assert.Equal(t, salt, salt2)

	// A fresh salt yields a different digest for the same password
	digest3, salt3, err := HashPassword("stay-safe", nil)
	assert.Nil(t, err)
	assert.NotEqual(t, salt, salt3)
	assert.NotEqual(t, digest, digest3)
}

func TestCheckPasswordHash(t *testing.T) {
	digest, salt, err := HashPassword("correct-horse", nil)
	assert.Nil(t, err)

	assert.True(t, CheckPasswordHash(digest, salt, "correct-horse"))
	assert.False(t, CheckPasswordHash(digest, salt, "wrong-horse"))
	assert.False(t, CheckPasswordHash(digest, salt, ""))
	assert.False(t, CheckPasswordHash(digest, "not-hex!!", "correct-horse"))
}
