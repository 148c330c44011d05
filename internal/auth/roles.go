package auth

import (
	"github.com/gofiber/fiber/v2"
)

// Require admits the request only when the gate routes the visitor to want;
// otherwise it redirects to wherever the gate does route them.
func (m *GateMiddleware) Require(want Destination) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dest, sess := m.gate(c).Resolve(c.UserContext())
		if dest != want {
			return c.Redirect(dest.Path(), fiber.StatusFound)
		}
		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

// RequireAdmin guards the admin dashboard.
func (m *GateMiddleware) RequireAdmin() fiber.Handler {
	return m.Require(RedirectAdmin)
}

// RequireUser guards the end-user dashboard.
func (m *GateMiddleware) RequireUser() fiber.Handler {
	return m.Require(RedirectUser)
}
