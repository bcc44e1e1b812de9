package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/cyclecast/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const DefaultAuthTokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUserRepository interface {
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, bool, error)
	FindByID(ctx context.Context, userID uint) (models.User, bool, error)
}

type authClaims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users     AuthUserRepository
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(users AuthUserRepository, secretKey string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultAuthTokenTTL
	}
	return &AuthService{
		users:     users,
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (service *AuthService) Authenticate(ctx context.Context, email string, password string) (models.User, error) {
	user, found, err := service.users.FindByNormalizedEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) IssueToken(user models.User) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(service.tokenTTL)
	claims := authClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

func (service *AuthService) ParseToken(rawToken string) (uint, error) {
	tokenValue := strings.TrimSpace(rawToken)
	if tokenValue == "" {
		return 0, ErrInvalidToken
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return service.secretKey, nil
	}, jwt.WithTimeFunc(service.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func (service *AuthService) ResolveUser(ctx context.Context, rawToken string) (models.User, error) {
	userID, err := service.ParseToken(rawToken)
	if err != nil {
		return models.User{}, err
	}

	user, found, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}
