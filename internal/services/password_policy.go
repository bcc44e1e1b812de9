package services

import (
	"errors"
	"fmt"
	"unicode"
)

const MinPasswordLength = 8

var ErrWeakPassword = errors.New("weak password")

// ValidatePasswordStrength requires MinPasswordLength runes with at least one
// upper case letter, one lower case letter and one digit.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("%w: shorter than %d characters", ErrWeakPassword, MinPasswordLength)
	}

	var upper, lower, digit bool
	for _, char := range password {
		upper = upper || unicode.IsUpper(char)
		lower = lower || unicode.IsLower(char)
		digit = digit || unicode.IsDigit(char)
	}

	switch {
	case !upper:
		return fmt.Errorf("%w: needs an upper case letter", ErrWeakPassword)
	case !lower:
		return fmt.Errorf("%w: needs a lower case letter", ErrWeakPassword)
	case !digit:
		return fmt.Errorf("%w: needs a digit", ErrWeakPassword)
	}
	return nil
}
