package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/terraincognita07/cyclecast/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const (
	temporaryPasswordLength   = 12
	temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

var (
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidRole   = errors.New("invalid role")
	ErrAccountExists = errors.New("account already exists")
)

type AccountRepository interface {
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string, mustChangePassword bool) error
}

type AccountService struct {
	users AccountRepository
	now   func() time.Time
}

func NewAccountService(users AccountRepository) *AccountService {
	return &AccountService{users: users, now: time.Now}
}

// CreateAccount stores a new user. With an empty password a temporary one is
// generated, returned, and must be changed after the first login.
func (service *AccountService) CreateAccount(ctx context.Context, email string, role string, password string) (models.User, string, error) {
	normalized, err := normalizeAccountEmail(email)
	if err != nil {
		return models.User{}, "", err
	}
	if role != models.RoleOwner && role != models.RolePartner {
		return models.User{}, "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	_, exists, err := service.users.FindByNormalizedEmail(ctx, normalized)
	if err != nil {
		return models.User{}, "", fmt.Errorf("load user: %w", err)
	}
	if exists {
		return models.User{}, "", ErrAccountExists
	}

	mustChange := false
	if password == "" {
		password, err = GenerateTemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return models.User{}, "", err
		}
		mustChange = true
	} else if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, "", err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{
		Email:              normalized,
		PasswordHash:       hash,
		Role:               role,
		MustChangePassword: mustChange,
		CreatedAt:          service.now().UTC(),
	}
	if err := service.users.Create(ctx, &user); err != nil {
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}

	if !mustChange {
		password = ""
	}
	return user, password, nil
}

// ResetPassword replaces the password with a temporary one and returns it.
func (service *AccountService) ResetPassword(ctx context.Context, email string) (string, error) {
	normalized, err := normalizeAccountEmail(email)
	if err != nil {
		return "", err
	}

	user, found, err := service.users.FindByNormalizedEmail(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, normalized)
	}

	temporary, err := GenerateTemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return "", err
	}
	hash, err := HashPassword(temporary)
	if err != nil {
		return "", err
	}
	if err := service.users.UpdatePassword(ctx, user.ID, hash, true); err != nil {
		return "", fmt.Errorf("update user password: %w", err)
	}
	return temporary, nil
}

// ChangePassword sets a new password after checking the current one and clears
// the must-change flag.
func (service *AccountService) ChangePassword(ctx context.Context, user models.User, current string, next string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if err := ValidatePasswordStrength(next); err != nil {
		return err
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if err := service.users.UpdatePassword(ctx, user.ID, hash, false); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}

func GenerateTemporaryPassword(length int) (string, error) {
	if length < MinPasswordLength {
		length = MinPasswordLength
	}
	password, err := security.RandomString(length, temporaryPasswordAlphabet)
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	return password, nil
}

func normalizeAccountEmail(raw string) (string, error) {
	email := NormalizeEmail(raw)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidEmail)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}
	return email, nil
}
