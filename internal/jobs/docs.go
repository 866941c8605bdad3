// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are cron based (github.com/robfig/cron/v3, six-field expressions with
// seconds) and managed through JobManager:
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewBoardRefreshJob(projector, cfg.BoardRefreshSpec, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// BoardRefreshJob recomputes the per-role pending counts and the alert list.
// Every committed write already refreshes the board; the job keeps alerts
// honest when an override leaves the 24 hour window with no further writes,
// and rebuilds the cache after a Redis restart.
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. A failed start stops
// every job started before it.
package jobs
