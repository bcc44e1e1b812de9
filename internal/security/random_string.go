// Package security holds small crypto helpers shared by account tooling.
package security

import (
	"crypto/rand"
	"errors"
	"fmt"
)

var (
	ErrNegativeLength   = errors.New("length must be non-negative")
	ErrEmptyAlphabet    = errors.New("alphabet must not be empty")
	ErrAlphabetTooLarge = errors.New("alphabet must not exceed 256 symbols")
)

// RandomString draws length symbols uniformly from alphabet using crypto/rand.
// alphabet is treated as bytes.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", ErrNegativeLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", ErrEmptyAlphabet
	case len(alphabet) > 256:
		return "", ErrAlphabetTooLarge
	}

	// Bytes at or above acceptBelow would favor the first symbols, so they are dropped.
	size := len(alphabet)
	acceptBelow := 256 - 256%size

	out := make([]byte, 0, length)
	batch := make([]byte, length+length/2+8)
	for len(out) < length {
		if _, err := rand.Read(batch); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range batch {
			if int(b) >= acceptBelow {
				continue
			}
			out = append(out, alphabet[int(b)%size])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
