package service

import (
	"automarket/internal/repository"
	"context"
	"time"

	"go.uber.org/zap"
)

// VerificationCleanup periodically deletes verification codes that expired.
// It returns once ctx is cancelled
func VerificationCleanup(ctx context.Context, t time.Duration, repo repository.VerificationRepository, now func() time.Time) {
	ticker := time.NewTicker(t)
	defer ticker.Stop()

	zap.L().Debug("Verification cleanup attached", zap.Duration("tick_every", t))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CleanupVerifications(ctx, repo, now())
		}
	}
}

// CleanupVerifications runs a single sweep
func CleanupVerifications(ctx context.Context, repo repository.VerificationRepository, now time.Time) int64 {
	n, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		zap.L().Error("Failed to cleanup expired verification codes", zap.Error(err))
		return 0
	}

	if n > 0 {
		zap.L().Debug("Cleaned up expired verification codes", zap.Int64("count", n))
	}

	return n
}
