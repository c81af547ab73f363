package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	code, err := Generate()
	require.NoError(t, err)
	require.Len(t, code, CodeLength)

	for _, r := range code {
		require.True(t, strings.ContainsRune(Alphabet, r), "symbol %q outside alphabet", r)
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		code, err := Generate()
		require.NoError(t, err)

		_, dup := seen[code]
		require.False(t, dup, "generated duplicate code %q", code)
		seen[code] = struct{}{}
	}
}

func TestGenerateCoversAlphabet(t *testing.T) {
	// With 500 codes (8000 symbols) every one of the 70 alphabet symbols
	// should appear; the odds of missing one are negligible.
	counts := make(map[rune]int, len(Alphabet))
	for range 500 {
		code, err := Generate()
		require.NoError(t, err)
		for _, r := range code {
			counts[r]++
		}
	}
	require.Len(t, counts, len(Alphabet))
}

func TestMustGenerate(t *testing.T) {
	require.Len(t, MustGenerate(), CodeLength)
}
