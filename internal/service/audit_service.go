package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/repository"
)

// AuditService records every console event in the log and, when a
// repository is configured, in Postgres.
type AuditService struct {
	dispatcher events.Dispatcher
	repo       repository.AuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service. repo may be nil.
func NewAuditService(dispatcher events.Dispatcher, repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		repo:       repo,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("resource_id", event.ResourceID),
		zap.String("actor_id", event.Actor.UserID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Any("payload", event.Payload))
	if a.repo == nil {
		return nil
	}
	return a.repo.Append(ctx, toAuditEntry(event))
}

// Recent returns the latest persisted entries, newest first. Without a
// repository it returns nothing.
func (a *AuditService) Recent(ctx context.Context, limit int) ([]repository.AuditEntry, error) {
	if a.repo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return a.repo.ListRecent(ctx, limit)
}

func toAuditEntry(event events.Event) *repository.AuditEntry {
	entry := &repository.AuditEntry{
		ID:         event.ID,
		EventType:  string(event.Type),
		ActorID:    event.Actor.UserID,
		ActorRole:  string(event.Actor.Role),
		ResourceID: event.ResourceID,
		OccurredAt: event.Timestamp,
	}
	if event.Payload != nil {
		// Round-trip through JSON so typed payloads land as a JSON object.
		if raw, err := json.Marshal(event.Payload); err == nil {
			var payload map[string]any
			if json.Unmarshal(raw, &payload) == nil {
				entry.Payload = payload
			}
		}
	}
	return entry
}
