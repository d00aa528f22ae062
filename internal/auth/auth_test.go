package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticVerifier(t *testing.T) {
	v := NewVerifier("foe2026", "foe2026", "")

	assert.True(t, v.Verify("foe2026", "foe2026"))
	assert.False(t, v.Verify("foe2026", "wrong"))
	assert.False(t, v.Verify("other", "foe2026"))
	assert.False(t, v.Verify("", ""))
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewVerifier("ops", "ignored", string(hash))
	require.IsType(t, BcryptVerifier{}, v)

	assert.True(t, v.Verify("ops", "s3cret"))
	assert.False(t, v.Verify("ops", "ignored"))
	assert.False(t, v.Verify("other", "s3cret"))
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, BcryptVerifier{Username: "u", Hash: []byte(h)}.Verify("u", "pw"))
}
