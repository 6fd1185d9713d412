// Package jobs provides scheduled background tasks for the shop-floor service.
//
// Jobs are cron-based (github.com/robfig/cron/v3).
//
// # Available Jobs
//
// PresenceSweepJob runs every PRESENCE_SWEEP_INTERVAL (30s by default) and
// evicts sessions whose connection no longer answers, then republishes
// connected-users to every group whether or not anyone was evicted.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(hub, cfg.PresenceSweepInterval, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A sweep never fails: an unreachable connection is treated as disconnected.
// A sweep still running when the next tick fires is skipped.
package jobs
