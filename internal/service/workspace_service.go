package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/dashboard"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/gateway"
	"github.com/spec-kit/ticket-console/internal/listing"
	"github.com/spec-kit/ticket-console/internal/session"
)

// Workspace is one visitor's dashboard view state. Exactly one of Admin and
// User is set, matching the profile's role.
type Workspace struct {
	Admin *dashboard.AdminShell
	User  *dashboard.UserShell

	profile  domain.UserProfile
	lastSeen time.Time
}

// Logout clears the visitor's session through whichever shell is active.
func (w *Workspace) Logout(ctx context.Context) (auth.Destination, error) {
	if w.Admin != nil {
		return w.Admin.Logout(ctx)
	}
	return w.User.Logout(ctx)
}

// WorkspaceRegistry keeps view state per visitor session id.
type WorkspaceRegistry struct {
	client     *gateway.Client
	dispatcher events.Dispatcher
	auth       *AuthService
	opts       listing.Options
	now        func() time.Time
	logger     *zap.Logger

	mu    sync.Mutex
	items map[string]*Workspace
}

// WorkspaceDependencies groups the registry's collaborators.
type WorkspaceDependencies struct {
	Client     *gateway.Client
	Dispatcher events.Dispatcher
	Auth       *AuthService
	Options    listing.Options
	Now        func() time.Time
	Logger     *zap.Logger
}

// NewWorkspaceRegistry builds an empty registry.
func NewWorkspaceRegistry(deps WorkspaceDependencies) *WorkspaceRegistry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &WorkspaceRegistry{
		client:     deps.Client,
		dispatcher: deps.Dispatcher,
		auth:       deps.Auth,
		opts:       deps.Options,
		now:        deps.Now,
		logger:     deps.Logger,
		items:      make(map[string]*Workspace),
	}
}

// Acquire returns the workspace of sid for profile, building a fresh one when
// none exists or the stored one belongs to a different identity.
func (r *WorkspaceRegistry) Acquire(sid string, store session.Store, profile domain.UserProfile) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ws, ok := r.items[sid]; ok && ws.profile.ID == profile.ID && ws.profile.Role == profile.Role {
		ws.lastSeen = r.now()
		return ws
	}

	deps := dashboard.Deps{
		Client:  r.client,
		Store:   store,
		Profile: profile,
		Events:  r.dispatcher,
		Options: r.opts,
		OnLogout: func(ctx context.Context) {
			r.Drop(sid)
			if r.auth != nil {
				r.auth.SessionEnded(ctx, events.ActorFrom(profile))
			}
		},
		Logger: r.logger,
	}
	ws := &Workspace{profile: profile, lastSeen: r.now()}
	if profile.Role == domain.RoleAdmin {
		ws.Admin = dashboard.NewAdminShell(deps)
	} else {
		ws.User = dashboard.NewUserShell(deps)
	}
	r.items[sid] = ws
	r.logger.Debug("workspace created", zap.String("user_id", profile.ID), zap.String("role", string(profile.Role)))
	return ws
}

// Lookup returns the workspace of sid without creating one.
func (r *WorkspaceRegistry) Lookup(sid string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[sid]
	return ws, ok
}

// Drop forgets the workspace of sid.
func (r *WorkspaceRegistry) Drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, sid)
}

// EvictIdle drops workspaces not used for longer than maxIdle and returns how
// many were dropped.
func (r *WorkspaceRegistry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for sid, ws := range r.items {
		if ws.lastSeen.Before(cutoff) {
			delete(r.items, sid)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live workspaces.
func (r *WorkspaceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
