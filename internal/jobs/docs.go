// Package jobs runs the scheduled background tasks of the marketplace service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-resolution
// schedules.
//
// # Available Jobs
//
// OutboxRelayJob drains pending notifications from the outbox and hands them
// to the notification dispatcher. A notification whose dispatch fails is
// marked failed and logged; it is not retried.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(relayHandler, "*/5 * * * * *", 100, logger)
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("failed to start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Relay errors are logged and the next tick tries again with a fresh
// transaction. Ticks never overlap. A job that fails to start stops the jobs
// started before it.
package jobs
