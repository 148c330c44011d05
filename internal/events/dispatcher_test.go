package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-console/internal/domain"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var got []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.ResourceID)
		return errors.New("audit store down")
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.ResourceID)
		return nil
	})
	d.Subscribe(EventUserDeleted, func(context.Context, Event) error {
		got = append(got, "wrong")
		return nil
	})

	err := d.Publish(context.Background(), New(EventTicketCreated, Actor{}, "t-1", nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"first:t-1", "second:t-1"}, got)
}

func TestNew_StampsEvent(t *testing.T) {
	actor := ActorFrom(domain.UserProfile{ID: "u1", Email: "a@x.com", Role: domain.RoleAdmin})
	e := New(EventUserDeleted, actor, "u2", nil)

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "u1", e.Actor.UserID)
	assert.Equal(t, domain.RoleAdmin, e.Actor.Role)
}

func TestTicketPayloadFor(t *testing.T) {
	status := domain.TicketStatusClosed
	p := TicketPayloadFor(domain.Ticket{Title: "VPN", Status: status}, domain.TicketFields{Status: &status})

	assert.Equal(t, []string{"status"}, p.Changed)
	assert.Equal(t, "VPN", p.Title)
}

func TestDispatcher_PanickingHandlerIsContained(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	reached := false
	d.Subscribe(EventSessionEnded, func(context.Context, Event) error {
		panic("boom")
	})
	d.Subscribe(EventSessionEnded, func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NotPanics(t, func() {
		assert.NoError(t, d.Publish(context.Background(), New(EventSessionEnded, Actor{UserID: "u1"}, "u1", nil)))
	})
	assert.True(t, reached)
}
