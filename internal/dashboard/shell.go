// Package dashboard composes list controllers into the admin and user
// dashboards and owns their tab, panel and logout behavior.
package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/gateway"
	"github.com/spec-kit/ticket-console/internal/listing"
	"github.com/spec-kit/ticket-console/internal/session"
)

// Deps are the collaborators shared by both shells.
type Deps struct {
	// Client is the unbound API client; the shell binds it to Store.
	Client  *gateway.Client
	Store   session.Store
	Profile domain.UserProfile
	Events  events.Dispatcher
	Options listing.Options
	// OnLogout runs after the session has been cleared.
	OnLogout func(context.Context)
	Logger   *zap.Logger
}

type shell struct {
	client   *gateway.Client
	store    session.Store
	profile  domain.UserProfile
	events   events.Dispatcher
	onLogout func(context.Context)
	logger   *zap.Logger
}

func newShell(d Deps) shell {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return shell{
		client:   d.Client.WithSession(d.Store),
		store:    d.Store,
		profile:  d.Profile,
		events:   d.Events,
		onLogout: d.OnLogout,
		logger:   logger.With(zap.String("user_id", d.Profile.ID), zap.String("role", string(d.Profile.Role))),
	}
}

// Profile returns the signed-in profile the shell was built for.
func (s *shell) Profile() domain.UserProfile {
	return s.profile
}

// Logout clears the session and reports where to navigate. The destination is
// login even when clearing fails.
func (s *shell) Logout(ctx context.Context) (auth.Destination, error) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("failed to clear session on logout", zap.Error(err))
		return auth.RedirectLogin, err
	}
	if s.onLogout != nil {
		s.onLogout(ctx)
	}
	return auth.RedirectLogin, nil
}

func (s *shell) publish(ctx context.Context, eventType events.EventType, resourceID string, payload any) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, events.New(eventType, events.ActorFrom(s.profile), resourceID, payload))
}

// ensure mounts a controller that has never loaded.
func ensure[T any, P any](ctx context.Context, ctl *listing.Controller[T, P]) error {
	if ctl.Snapshot().Loaded {
		return nil
	}
	return ctl.Mount(ctx)
}
