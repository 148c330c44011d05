package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/gateway"
	"github.com/spec-kit/ticket-console/internal/service"
	"github.com/spec-kit/ticket-console/internal/session"
)

func TestWorkspaceJanitor_EvictsIdle(t *testing.T) {
	registry := service.NewWorkspaceRegistry(service.WorkspaceDependencies{
		Client: gateway.NewWithHTTPClient("http://127.0.0.1:1", nil, nil, nil),
	})
	registry.Acquire("sid", session.NewStore(session.NewMemoryBackend(), "sid", nil, 0), domain.UserProfile{ID: "u1", Role: domain.RoleUser})

	ctx, cancel := context.WithCancel(context.Background())
	done := StartWorkspaceJanitor(ctx, registry, time.Nanosecond, 5*time.Millisecond, nil)

	assert.Eventually(t, func() bool { return registry.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestStartAuditWorker_Registers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	StartAuditWorker(service.NewAuditService(dispatcher, nil, nil))
	StartAuditWorker(nil)

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventTicketDeleted, events.Actor{}, "t-1", nil)))
}

type countingDeleter struct {
	calls chan struct{}
}

func (d *countingDeleter) DeleteExpired(context.Context) (int64, error) {
	select {
	case d.calls <- struct{}{}:
	default:
	}
	return 2, nil
}

func TestSessionSweeper_DeletesUntilCancelled(t *testing.T) {
	deleter := &countingDeleter{calls: make(chan struct{}, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartSessionSweeper(ctx, deleter, 5*time.Millisecond, nil)

	select {
	case <-deleter.calls:
	case <-time.After(time.Second):
		t.Fatal("sweeper never ran")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSessionSweeper_NilRepository(t *testing.T) {
	done := StartSessionSweeper(context.Background(), nil, time.Millisecond, nil)
	_, open := <-done
	assert.False(t, open)
}
