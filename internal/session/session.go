// Package session persists the signed-in visitor's credential and profile.
//
// A Store is bound to exactly one visitor. It performs no validation of what
// it holds; deciding whether a stored credential is still usable is the
// access gate's job.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// ErrNotFound is returned by Load when nothing is stored.
var ErrNotFound = errors.New("session: not found")

// Session is the persisted record: the opaque bearer credential plus the
// profile returned at login.
type Session struct {
	Credential string             `json:"token"`
	Profile    domain.UserProfile `json:"user"`
}

// Store is the get/set/clear area for one visitor's session.
type Store interface {
	Save(ctx context.Context, credential string, profile domain.UserProfile) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// Backend is the key/value area sessions are written to.
type Backend interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type keyedStore struct {
	backend Backend
	key     string
	sealer  Sealer
	ttl     time.Duration
}

// NewStore binds key on backend. Records are sealed before they reach the
// backend; ttl of zero means the backend keeps them until cleared.
func NewStore(backend Backend, key string, sealer Sealer, ttl time.Duration) Store {
	if sealer == nil {
		sealer = plainSealer{}
	}
	return &keyedStore{backend: backend, key: key, sealer: sealer, ttl: ttl}
}

func (s *keyedStore) Save(ctx context.Context, credential string, profile domain.UserProfile) error {
	raw, err := json.Marshal(Session{Credential: credential, Profile: profile})
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	sealed, err := s.sealer.Seal(raw)
	if err != nil {
		return fmt.Errorf("session: seal: %w", err)
	}
	return s.backend.Put(ctx, s.key, sealed, s.ttl)
}

func (s *keyedStore) Load(ctx context.Context) (*Session, error) {
	sealed, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	raw, err := s.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("session: open: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &sess, nil
}

func (s *keyedStore) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, s.key)
}
