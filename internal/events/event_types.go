package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventSessionEnded   EventType = "session_ended"
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketDeleted  EventType = "ticket_deleted"
	EventUserDeleted    EventType = "user_deleted"
)

// AllEventTypes lists every event the console publishes.
var AllEventTypes = []EventType{
	EventSessionStarted,
	EventSessionEnded,
	EventTicketCreated,
	EventTicketUpdated,
	EventTicketDeleted,
	EventUserDeleted,
}

// Actor identifies who caused an event.
type Actor struct {
	UserID string      `json:"user_id,omitempty"`
	Email  string      `json:"email,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// ActorFrom builds an Actor from a signed-in profile.
func ActorFrom(p domain.UserProfile) Actor {
	return Actor{UserID: p.ID, Email: p.Email, Role: p.Role}
}

// Event records one confirmed change made through the console.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	ResourceID string    `json:"resource_id,omitempty"`
	Actor      Actor     `json:"actor"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, actor Actor, resourceID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// TicketPayload summarizes the ticket an event is about.
type TicketPayload struct {
	Title  string              `json:"title,omitempty"`
	Status domain.TicketStatus `json:"status,omitempty"`
	// Changed names the fields sent in a partial update.
	Changed []string `json:"changed,omitempty"`
}

// TicketPayloadFor builds a payload for t, listing the fields set in changed.
func TicketPayloadFor(t domain.Ticket, changed domain.TicketFields) TicketPayload {
	p := TicketPayload{Title: t.Title, Status: t.Status}
	if changed.Title != nil {
		p.Changed = append(p.Changed, "title")
	}
	if changed.Description != nil {
		p.Changed = append(p.Changed, "description")
	}
	if changed.Status != nil {
		p.Changed = append(p.Changed, "status")
	}
	return p
}
