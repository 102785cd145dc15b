package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPasswordAsBcrypt("pw1")
	assert.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)

	assert.True(t, CheckPasswordHash(hash, "pw1"))
	assert.False(t, CheckPasswordHash(hash, "pw2"))
	assert.False(t, CheckPasswordHash("not-a-hash", "pw1"))
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPasswordAsBcrypt("pw1")
	assert.NoError(t, err)
	second, err := HashPasswordAsBcrypt("pw1")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}
