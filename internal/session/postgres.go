package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-console/internal/repository"
)

// PostgresBackend stores sealed session records in the console_sessions table.
type PostgresBackend struct {
	repo repository.SessionRepository
	now  func() time.Time
}

// NewPostgresBackend wraps a session repository.
func NewPostgresBackend(repo repository.SessionRepository) *PostgresBackend {
	return &PostgresBackend{repo: repo, now: time.Now}
}

func (b *PostgresBackend) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	record := &repository.SessionRecord{ID: key, Data: value}
	if ttl > 0 {
		expiresAt := b.now().Add(ttl)
		record.ExpiresAt = &expiresAt
	}
	return b.repo.Upsert(ctx, record)
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	record, err := b.repo.GetByID(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Data, nil
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	return b.repo.Delete(ctx, key)
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.repo.Ping(ctx)
}
