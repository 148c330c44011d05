package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/session"
)

// Authenticator exchanges credentials with the remote API.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	SignUp(ctx context.Context, payload dto.UserSignupRequest) (*dto.AuthResponse, error)
}

// AuthService coordinates login, sign-up and logout flows.
type AuthService struct {
	api        Authenticator
	dispatcher events.Dispatcher
	now        func() time.Time
	logger     *zap.Logger
}

// NewAuthService builds the service. A nil clock uses time.Now.
func NewAuthService(api Authenticator, dispatcher events.Dispatcher, now func() time.Time, logger *zap.Logger) *AuthService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{api: api, dispatcher: dispatcher, now: now, logger: logger}
}

// Login authenticates, saves the session into store and returns where the
// access gate sends the visitor next.
func (s *AuthService) Login(ctx context.Context, store session.Store, email, password string) (auth.Destination, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return auth.RedirectLogin, err
	}
	return s.start(ctx, store, resp)
}

// SignUp registers an account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, store session.Store, payload dto.UserSignupRequest) (auth.Destination, error) {
	resp, err := s.api.SignUp(ctx, payload)
	if err != nil {
		return auth.RedirectLogin, err
	}
	return s.start(ctx, store, resp)
}

func (s *AuthService) start(ctx context.Context, store session.Store, resp *dto.AuthResponse) (auth.Destination, error) {
	if err := store.Save(ctx, resp.Token, resp.User); err != nil {
		return auth.RedirectLogin, err
	}
	s.logger.Info("session started", zap.String("user_id", resp.User.ID), zap.String("role", string(resp.User.Role)))
	s.publish(ctx, events.New(events.EventSessionStarted, events.ActorFrom(resp.User), resp.User.ID, nil))
	return auth.NewGate(store, s.now, s.logger).Evaluate(ctx), nil
}

// Logout clears store and records the end of the session. It is safe to call
// without a stored session.
func (s *AuthService) Logout(ctx context.Context, store session.Store) error {
	var actor events.Actor
	if sess, err := store.Load(ctx); err == nil {
		actor = events.ActorFrom(sess.Profile)
	}
	if err := store.Clear(ctx); err != nil {
		return err
	}
	s.SessionEnded(ctx, actor)
	return nil
}

// SessionEnded records that actor's session is over.
func (s *AuthService) SessionEnded(ctx context.Context, actor events.Actor) {
	if actor.UserID == "" && actor.Email == "" {
		return
	}
	s.logger.Info("session ended", zap.String("user_id", actor.UserID))
	s.publish(ctx, events.New(events.EventSessionEnded, actor, actor.UserID, nil))
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
