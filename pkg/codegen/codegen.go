package codegen

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// Alphabet is the full symbol set codes are drawn from: upper and lower case
// letters, digits and a small set of punctuation (70 symbols total).
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"

// CodeLength is the number of symbols in a generated code.
const CodeLength = 16

// ErrRandomnessUnavailable is returned when the secure random source cannot
// be read. Callers must treat this as fatal for the operation; there is no
// fallback to a weaker source.
var ErrRandomnessUnavailable = errors.New("codegen: secure random source unavailable")

// Generate produces a fresh code of CodeLength symbols drawn uniformly from
// Alphabet using crypto/rand. Symbols are picked by rejection sampling so the
// distribution carries no modulo bias. Every call is independent; no state is
// retained between calls.
func Generate() (string, error) {
	return generate(CodeLength)
}

// MustGenerate is like Generate but panics on error. Use this only in tests
// or contexts where a randomness failure is unrecoverable anyway.
func MustGenerate() string {
	code, err := Generate()
	if err != nil {
		panic(fmt.Sprintf("codegen: %v", err))
	}
	return code
}

func generate(length int) (string, error) {
	// Largest multiple of len(Alphabet) that fits in a byte. Bytes at or
	// above this value are rejected to keep the pick uniform.
	const limit = byte(256 - 256%len(Alphabet))

	out := make([]byte, 0, length)
	buf := make([]byte, length*2)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
