package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyKey(t *testing.T) {
	hash, err := HashKey("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifyKey("correct horse battery staple", hash))
	require.ErrorIs(t, VerifyKey("wrong key", hash), ErrKeyMismatch)
}

func TestHashKeyUniqueSalts(t *testing.T) {
	h1, err := HashKey("key")
	require.NoError(t, err)
	h2, err := HashKey("key")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2, "salts must differ between hashes")

	require.NoError(t, VerifyKey("key", h1))
	require.NoError(t, VerifyKey("key", h2))
}

func TestVerifyKeyMalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plainly-not-a-hash"},
		{"wrong algorithm", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyKey("key", tt.hash)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrKeyMismatch)
		})
	}
}
