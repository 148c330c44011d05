package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/service"
)

// StartWorkspaceJanitor evicts idle workspaces every interval until ctx is
// done. It returns a channel closed when the loop exits.
func StartWorkspaceJanitor(ctx context.Context, registry *service.WorkspaceRegistry, maxIdle, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if registry == nil {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = maxIdle / 2
	}
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := registry.EvictIdle(maxIdle); n > 0 {
					logger.Info("evicted idle workspaces", zap.Int("count", n), zap.Int("remaining", registry.Len()))
				}
			}
		}
	}()
	return done
}
