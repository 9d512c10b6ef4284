package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/veermshah/congruency/internal/token"
)

// UserIDLocalKey is the context-locals key for the authenticated user's ID.
const UserIDLocalKey = "user_id"

// SignInPath is where unauthenticated requests are redirected.
const SignInPath = "/sign-in"

// RequireUser guards a route group: it reads the session token from the
// named cookie (or an Authorization Bearer header), verifies it, and stores
// the user ID in context locals. Requests without a valid session are
// redirected to the sign-in page before any handler runs.
func RequireUser(tokens token.Manager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Cookies(cookieName)
		if tok == "" {
			if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
				tok = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if tok == "" {
			return c.Redirect(SignInPath, fiber.StatusSeeOther)
		}

		userID, err := tokens.Parse(tok)
		if err != nil {
			return c.Redirect(SignInPath, fiber.StatusSeeOther)
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}
