package security

import (
	"errors"
	"strings"
	"testing"
)

func TestRandomStringRejectsBadArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		want     error
	}{
		{name: "negative length", length: -1, alphabet: "abc", want: ErrNegativeLength},
		{name: "empty alphabet", length: 1, alphabet: "", want: ErrEmptyAlphabet},
		{name: "oversized alphabet", length: 1, alphabet: strings.Repeat("a", 257), want: ErrAlphabetTooLarge},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if _, err := RandomString(test.length, test.alphabet); !errors.Is(err, test.want) {
				t.Fatalf("expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestRandomStringLengthAndAlphabet(t *testing.T) {
	t.Parallel()

	empty, err := RandomString(0, "abc")
	if err != nil || empty != "" {
		t.Fatalf("expected empty string for zero length, got %q, %v", empty, err)
	}

	single, err := RandomString(8, "X")
	if err != nil {
		t.Fatalf("single-symbol alphabet: %v", err)
	}
	if single != "XXXXXXXX" {
		t.Fatalf("expected XXXXXXXX, got %q", single)
	}

	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	got, err := RandomString(256, alphabet)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got) != 256 {
		t.Fatalf("expected length 256, got %d", len(got))
	}
	for _, char := range got {
		if !strings.ContainsRune(alphabet, char) {
			t.Fatalf("produced %q outside alphabet", char)
		}
	}
}

func TestRandomStringCoversAlphabet(t *testing.T) {
	t.Parallel()

	const alphabet = "abc"
	got, err := RandomString(3000, alphabet)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, symbol := range alphabet {
		count := strings.Count(got, string(symbol))
		if count < 800 || count > 1200 {
			t.Fatalf("expected roughly uniform output, %q appeared %d times", symbol, count)
		}
	}
}
