package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/veermshah/congruency/internal/config"
	"github.com/veermshah/congruency/internal/model"
	"github.com/veermshah/congruency/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func setSessionCookie(c *fiber.Ctx, cfg config.AuthConfig, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(cfg.TokenTTLMin) * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SignUp handles POST /auth/sign-up: creates the account and starts a session.
func SignUp(authSvc service.AuthService, cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, token, err := authSvc.SignUp(c.UserContext(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmailTaken):
				return writeError(c, fiber.StatusConflict, "EMAIL_TAKEN", "email is already registered")
			case model.KindOf(err) == model.KindValidation:
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		setSessionCookie(c, cfg, token)
		return c.Status(fiber.StatusCreated).JSON(sessionResponse{User: user, Token: token})
	}
}

// SignIn handles POST /auth/sign-in: verifies credentials and starts a session.
func SignIn(authSvc service.AuthService, cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, token, err := authSvc.SignIn(c.UserContext(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			case model.KindOf(err) == model.KindValidation:
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		setSessionCookie(c, cfg, token)
		return c.JSON(sessionResponse{User: user, Token: token})
	}
}

// SignOut handles POST /auth/sign-out: ends the session by expiring the cookie.
func SignOut(cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SignInPage serves the minimal sign-in page that unauthenticated requests
// are redirected to.
func SignInPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Sign in</title>
</head>
<body>
  <h1>Sign in</h1>
  <form method="post" action="/auth/sign-in" onsubmit="submitForm(event)">
    <input id="email" type="email" placeholder="Email" required />
    <input id="password" type="password" placeholder="Password" required />
    <button type="submit">Sign in</button>
  </form>
  <script>
    async function submitForm(e) {
      e.preventDefault();
      const res = await fetch('/auth/sign-in', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({
          email: document.getElementById('email').value,
          password: document.getElementById('password').value
        })
      });
      if (res.ok) window.location = '/contracts';
    }
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	}
}
