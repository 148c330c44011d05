package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/session"
)

// Destination is the outcome of one gate evaluation.
type Destination int

const (
	Unevaluated Destination = iota
	RedirectLogin
	RedirectAdmin
	RedirectUser
)

const (
	LoginPath          = "/login"
	AdminDashboardPath = "/admin-dashboard"
	UserDashboardPath  = "/user-dashboard"
)

// Path returns the route the destination redirects to.
func (d Destination) Path() string {
	switch d {
	case RedirectAdmin:
		return AdminDashboardPath
	case RedirectUser:
		return UserDashboardPath
	default:
		return LoginPath
	}
}

func (d Destination) String() string {
	switch d {
	case RedirectLogin:
		return "login"
	case RedirectAdmin:
		return "admin dashboard"
	case RedirectUser:
		return "user dashboard"
	default:
		return "unevaluated"
	}
}

// DestinationFor maps a role to its dashboard; unknown roles go to login.
func DestinationFor(role domain.Role) Destination {
	switch role {
	case domain.RoleAdmin:
		return RedirectAdmin
	case domain.RoleUser:
		return RedirectUser
	default:
		return RedirectLogin
	}
}

// Gate decides where a visitor may go based on the stored session. It never
// renders anything itself.
type Gate struct {
	store  session.Store
	now    func() time.Time
	logger *zap.Logger
}

// NewGate builds a gate over store. A nil clock uses time.Now.
func NewGate(store session.Store, now func() time.Time, logger *zap.Logger) *Gate {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{store: store, now: now, logger: logger}
}

// Evaluate loads the session and returns the destination. Missing, unreadable
// and expired sessions are cleared and routed to login.
func (g *Gate) Evaluate(ctx context.Context) Destination {
	dest, _ := g.Resolve(ctx)
	return dest
}

// Resolve is Evaluate that also returns the session when the visitor may
// proceed to a dashboard.
func (g *Gate) Resolve(ctx context.Context) (Destination, *session.Session) {
	sess, err := g.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			g.logger.Warn("unreadable session; clearing", zap.Error(err))
			g.clear(ctx)
		}
		return RedirectLogin, nil
	}

	if sess.Credential == "" || ParseCredential(sess.Credential).Expired(g.now()) {
		g.logger.Info("session expired; clearing", zap.String("user_id", sess.Profile.ID))
		g.clear(ctx)
		return RedirectLogin, nil
	}

	if sess.Profile.ID == "" && sess.Profile.Email == "" && sess.Profile.Role == "" {
		g.logger.Warn("session has no profile; clearing")
		g.clear(ctx)
		return RedirectLogin, nil
	}

	dest := DestinationFor(sess.Profile.Role)
	if dest == RedirectLogin {
		g.logger.Warn("session has unknown role", zap.String("role", string(sess.Profile.Role)))
		return RedirectLogin, nil
	}
	return dest, sess
}

func (g *Gate) clear(ctx context.Context) {
	if err := g.store.Clear(ctx); err != nil {
		g.logger.Error("failed to clear session", zap.Error(err))
	}
}
