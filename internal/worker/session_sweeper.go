package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiredSessionDeleter removes sessions past their expiry.
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StartSessionSweeper deletes expired session rows every interval until ctx
// is done. Backends that expire keys themselves do not need it.
func StartSessionSweeper(ctx context.Context, repo ExpiredSessionDeleter, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if repo == nil {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 10 * time.Minute
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
				n, err := repo.DeleteExpired(ctx)
				if err != nil {
					logger.Warn("session sweep failed", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Info("deleted expired sessions", zap.Int64("count", n))
				}
			}
		}
	}()
	return done
}
