package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// Job is a background task with an explicit lifecycle.
type Job interface {
	Start() error
	Stop()
}

// JobManager starts and stops the application's background jobs.
type JobManager struct {
	jobs   []namedJob
	logger *zap.Logger
}

type namedJob struct {
	name string
	job  Job
}

// NewJobManager wires the scheduled jobs of the service.
func NewJobManager(relayHandler RelayHandler, relaySchedule string, relayBatchSize int, logger *zap.Logger) *JobManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobManager{
		jobs: []namedJob{
			{name: "outbox relay", job: NewOutboxRelayJob(relayHandler, relaySchedule, relayBatchSize, logger)},
		},
		logger: logger,
	}
}

// Register adds a job. It must be called before StartAll.
func (jm *JobManager) Register(name string, job Job) {
	jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
}

// StartAll starts every job in registration order. If one fails, the
// already started ones are stopped.
func (jm *JobManager) StartAll() error {
	for i, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.job.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
	}
	return nil
}

// StopAll stops every job in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].job.Stop()
	}
	jm.logger.Info("all jobs stopped")
}
