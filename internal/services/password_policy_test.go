package services

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePasswordStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		reason   string
	}{
		{password: "StrongPass1"},
		{password: "Straße123"},
		{password: "Ab1", reason: "shorter than"},
		{password: "lowercase1", reason: "upper case"},
		{password: "UPPERCASE1", reason: "lower case"},
		{password: "NoDigitsHere", reason: "digit"},
	}

	for _, test := range tests {
		err := ValidatePasswordStrength(test.password)
		if test.reason == "" {
			if err != nil {
				t.Fatalf("expected %q to pass, got %v", test.password, err)
			}
			continue
		}
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword for %q, got %v", test.password, err)
		}
		if !strings.Contains(err.Error(), test.reason) {
			t.Fatalf("expected reason %q for %q, got %v", test.reason, test.password, err)
		}
	}
}
