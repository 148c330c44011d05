package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRecord is one sealed visitor session.
type SessionRecord struct {
	ID        string
	Data      []byte
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

// SessionRepository persists visitor sessions.
type SessionRepository interface {
	Upsert(ctx context.Context, record *SessionRecord) error
	GetByID(ctx context.Context, id string) (*SessionRecord, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository returns a Postgres-backed implementation.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) Upsert(ctx context.Context, record *SessionRecord) error {
	const query = `
        INSERT INTO console_sessions (id, data, expires_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, updated_at = NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, record.ID, record.Data, record.ExpiresAt).Scan(&record.UpdatedAt)
}

// GetByID returns pgx.ErrNoRows for missing or expired sessions.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (*SessionRecord, error) {
	const query = `
        SELECT id, data, expires_at, updated_at
        FROM console_sessions
        WHERE id = $1 AND (expires_at IS NULL OR expires_at > NOW())`
	var record SessionRecord
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Data,
		&record.ExpiresAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM console_sessions WHERE id = $1`, id)
	return err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM console_sessions WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *sessionRepository) Ping(ctx context.Context) error {
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return r.pool.Ping(ctx)
}
