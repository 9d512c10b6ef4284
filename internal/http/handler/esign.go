package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const esignStateCookie = "esign_state"

// ESignAuth handles GET /esign/auth: starts the provider's authorization-code
// consent flow. The state value round-trips through a short-lived cookie.
func ESignAuth(cfg *oauth2.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     esignStateCookie,
			Value:    state,
			Expires:  time.Now().Add(10 * time.Minute),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Redirect(cfg.AuthCodeURL(state), fiber.StatusFound)
	}
}

// ESignCallback handles GET /esign/callback: validates the state, exchanges
// the code for a token, and confirms the provider connection.
func ESignCallback(cfg *oauth2.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := c.Query("state")
		if state == "" || state != c.Cookies(esignStateCookie) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATE", "state mismatch")
		}

		code := c.Query("code")
		if code == "" {
			return writeError(c, fiber.StatusBadRequest, "CODE_REQUIRED", "authorization code is required")
		}

		tok, err := cfg.Exchange(c.UserContext(), code)
		if err != nil {
			return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "token exchange failed")
		}

		c.Cookie(&fiber.Cookie{
			Name:     esignStateCookie,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
		})
		return c.JSON(fiber.Map{
			"status":     "connected",
			"expires_at": tok.Expiry,
		})
	}
}
