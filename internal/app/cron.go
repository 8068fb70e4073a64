package app

import (
	"context"
	"time"

	"github.com/opencircle/core/internal/modules/auth"
	pkgcron "github.com/opencircle/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, authSvc *auth.Service, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "cleanup_sessions",
		Description: "Delete sessions whose refresh token has expired",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			deleted, err := authSvc.CleanupExpiredSessions(ctx)
			if err != nil {
				cronLogger.Warn("session cleanup failed", zap.Error(err))
				return err
			}
			cronLogger.Info("session cleanup done", zap.Int64("deleted", deleted))
			return nil
		},
	})
}
