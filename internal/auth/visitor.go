package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/ticket-console/internal/session"
)

const visitorKey = "visitor_id"

// Visitors gives every browser a random id cookie and binds a session store
// to it.
type Visitors struct {
	backend    session.Backend
	sealer     session.Sealer
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewVisitors builds the visitor registry over backend.
func NewVisitors(backend session.Backend, sealer session.Sealer, ttl time.Duration, cookieName string, secure bool) *Visitors {
	if cookieName == "" {
		cookieName = "console_sid"
	}
	return &Visitors{backend: backend, sealer: sealer, ttl: ttl, cookieName: cookieName, secure: secure}
}

// Middleware reads the visitor cookie, issuing a new id when it is missing
// or malformed.
func (v *Visitors) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(v.cookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     v.cookieName,
				Value:    id,
				Path:     "/",
				HTTPOnly: true,
				Secure:   v.secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(visitorKey, id)
		return c.Next()
	}
}

// Store returns the session store of the requesting visitor. Middleware must
// have run first.
func (v *Visitors) Store(c *fiber.Ctx) session.Store {
	return session.NewStore(v.backend, VisitorID(c), v.sealer, v.ttl)
}

// Ping checks the session backend.
func (v *Visitors) Ping(c *fiber.Ctx) error {
	return v.backend.Ping(c.UserContext())
}

// VisitorID returns the id assigned by Visitors.Middleware.
func VisitorID(c *fiber.Ctx) string {
	id, _ := c.Locals(visitorKey).(string)
	return id
}
