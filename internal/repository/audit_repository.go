package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditEntry records a confirmed console action.
type AuditEntry struct {
	ID         string
	EventType  string
	ActorID    string
	ActorRole  string
	ResourceID string
	Payload    map[string]any
	OccurredAt time.Time
}

// AuditRepository appends audit entries.
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns a Postgres-backed implementation.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *AuditEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO console_audit_events (id, event_type, actor_id, actor_role, resource_id, payload, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err = r.pool.Exec(ctx, query,
		entry.ID,
		entry.EventType,
		entry.ActorID,
		entry.ActorRole,
		entry.ResourceID,
		payload,
		entry.OccurredAt,
	)
	return err
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, event_type, actor_id, actor_role, resource_id, payload, occurred_at
        FROM console_audit_events
        ORDER BY occurred_at DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var payload []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.EventType,
			&entry.ActorID,
			&entry.ActorRole,
			&entry.ResourceID,
			&payload,
			&entry.OccurredAt,
		); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &entry.Payload); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
