package jobs

import (
	"context"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RelayHandler is the part of RelayNotificationsCommandHandler the job needs.
type RelayHandler interface {
	Handle(ctx context.Context, command commands.RelayNotificationsCommand) (commands.RelayResult, error)
}

// OutboxRelayJob drains the notification outbox on a cron schedule. A tick
// that fires while the previous one is still running is skipped.
type OutboxRelayJob struct {
	handler   RelayHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *zap.Logger
}

// NewOutboxRelayJob creates the relay job. schedule is a six-field cron
// expression (seconds first).
func NewOutboxRelayJob(handler RelayHandler, schedule string, batchSize int, logger *zap.Logger) *OutboxRelayJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "outbox_relay_job"))
	cronLogger := cronLogger{logger.Sugar()}

	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
	}
}

// Start registers the schedule and starts the scheduler.
func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("outbox relay job started", zap.String("schedule", j.schedule), zap.Int("batch_size", j.batchSize))
	return nil
}

// RunOnce relays a single batch. Errors are logged.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewRelayNotificationsCommand(j.batchSize)
	if err != nil {
		j.logger.Error("invalid relay batch size", zap.Error(err))
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("outbox relay failed", zap.Error(err))
		return
	}
	if result.Failed > 0 {
		j.logger.Warn("outbox relay finished with failures", zap.Int("sent", result.Sent), zap.Int("failed", result.Failed))
	}
}

// Stop stops the scheduler and waits for a running tick to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("outbox relay job stopped")
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
