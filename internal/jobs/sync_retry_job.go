package jobs

import (
	"context"
	"log/slog"

	"courierbridge/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SyncRetryJob periodically re-attempts the durable sync for orders whose
// last write to the database failed. Runs every 30 seconds.
type SyncRetryJob struct {
	handler commands.RetryDurableSyncCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSyncRetryJob creates a new job for durable sync recovery.
// Uses RetryDurableSyncCommandHandler to sweep the working set.
func NewSyncRetryJob(handler commands.RetryDurableSyncCommandHandler, logger *slog.Logger) *SyncRetryJob {
	return &SyncRetryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "sync_retry_job"),
	}
}

// Start begins the sync retry job to run every 30 seconds.
func (j *SyncRetryJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRetryDurableSyncCommand()

		retried, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Sync retry job failed", "error", err)
			return
		}
		if retried > 0 {
			j.logger.InfoContext(ctx, "Recovered stale durable syncs", "orders", retried)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Sync retry job started (running every 30 seconds)")
	return nil
}

// Stop stops the sync retry job.
func (j *SyncRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Sync retry job stopped")
}
