package services

import (
	"errors"
	"strings"
)

var ErrCredentialsMissing = errors.New("email and password are required")

// NormalizeLoginInput normalizes the email and rejects blank fields. The
// password is returned untouched since surrounding spaces may be part of it.
func NormalizeLoginInput(emailRaw string, password string) (string, string, error) {
	email := NormalizeEmail(emailRaw)
	if email == "" || strings.TrimSpace(password) == "" {
		return "", "", ErrCredentialsMissing
	}
	return email, password, nil
}
