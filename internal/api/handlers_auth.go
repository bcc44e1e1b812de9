package api

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/services"
)

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := clientKey(c)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	email, password, err := services.NormalizeLoginInput(input.Email, input.Password)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := handler.auth.Authenticate(c.UserContext(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.recordFailure(limiterKey, now)
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		log.Printf("auth: login failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to sign in")
	}
	handler.loginLimiter.clear(limiterKey)

	token, expiresAt, err := handler.auth.IssueToken(user)
	if err != nil {
		log.Printf("auth: issue token for user %d failed: %v", user.ID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to sign in")
	}
	handler.setAuthCookie(c, token, expiresAt)

	return c.JSON(fiber.Map{
		"token":                token,
		"expires_at":           expiresAt.UTC().Format(time.RFC3339),
		"must_change_password": user.MustChangePassword,
	})
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, _ := currentUser(c)

	var input changePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := handler.accounts.ChangePassword(c.UserContext(), *user, input.CurrentPassword, input.NewPassword)
	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, services.ErrInvalidCredentials):
		return apiError(c, fiber.StatusUnauthorized, "invalid current password")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("auth: change password for user %d failed: %v", user.ID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to change password")
	}
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	if user, ok := currentUser(c); ok {
		handler.predictions.Forget(user.ID)
	}
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) setAuthCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
