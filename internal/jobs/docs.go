// Package jobs provides scheduled background tasks for the reconciliation
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations the service needs.
//
// # Available Jobs
//
// 1. SyncRetryJob - Runs every 30 seconds to re-attempt durable syncs that
// failed, clearing the per-order sync diagnostic on success
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(retrySyncHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Individual order failures stay inside the sweep; the job only logs when the
// whole sweep cannot run. Failed job starts abort application startup.
package jobs
