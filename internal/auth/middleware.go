package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/session"
)

const sessionKey = "auth_session"

// StoreResolver returns the session store of the visitor making the request.
type StoreResolver func(c *fiber.Ctx) session.Store

// GateMiddleware runs the access gate for incoming requests.
type GateMiddleware struct {
	stores StoreResolver
	now    func() time.Time
	logger *zap.Logger
}

// NewGateMiddleware constructs middleware.
func NewGateMiddleware(stores StoreResolver, now func() time.Time, logger *zap.Logger) *GateMiddleware {
	return &GateMiddleware{stores: stores, now: now, logger: logger}
}

func (m *GateMiddleware) gate(c *fiber.Ctx) *Gate {
	return NewGate(m.stores(c), m.now, m.logger)
}

// Redirect sends the visitor wherever the gate decides. Mounted on "/".
func (m *GateMiddleware) Redirect(c *fiber.Ctx) error {
	dest := m.gate(c).Evaluate(c.UserContext())
	return c.Redirect(dest.Path(), fiber.StatusFound)
}

// SessionFromContext retrieves the session admitted by the gate.
func SessionFromContext(c *fiber.Ctx) (*session.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	sess, ok := val.(*session.Session)
	return sess, ok
}
