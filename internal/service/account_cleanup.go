package service

import (
	"automarket/internal/repository"
	"context"
	"time"

	"go.uber.org/zap"
)

// AccountCleanup periodically deletes accounts that were registered more
// than maxAge ago and never verified. It returns once ctx is cancelled
func AccountCleanup(ctx context.Context, t, maxAge time.Duration, repo repository.UserRepository, now func() time.Time) {
	ticker := time.NewTicker(t)
	defer ticker.Stop()

	zap.L().Debug("Account cleanup attached", zap.Duration("tick_every", t), zap.Duration("max_age", maxAge))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CleanupAccounts(ctx, repo, now().Add(-maxAge))
		}
	}
}

// CleanupAccounts runs a single sweep over accounts registered before cutoff
func CleanupAccounts(ctx context.Context, repo repository.UserRepository, cutoff time.Time) int64 {
	n, err := repo.DeleteUnverifiedBefore(ctx, cutoff)
	if err != nil {
		zap.L().Error("Failed to cleanup unverified accounts", zap.Error(err))
		return 0
	}

	if n > 0 {
		zap.L().Debug("Cleaned up unverified accounts", zap.Int64("count", n))
	}

	return n
}
