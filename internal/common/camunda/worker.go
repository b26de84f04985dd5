// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// WorkerManager opens job workers and closes them together on shutdown.
type WorkerManager struct {
	client  zbc.Client
	logger  *zap.Logger
	workers []worker.JobWorker
}

func NewWorkerManager(client zbc.Client, logger *zap.Logger) *WorkerManager {
	return &WorkerManager{
		client: client,
		logger: logger,
	}
}

// Start opens one job worker for taskType and tracks it for shutdown.
func (m *WorkerManager) Start(taskType string, maxJobsActive int, timeout time.Duration, handler func(worker.JobClient, entities.Job)) {
	jobWorker := m.client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(maxJobsActive).
		Timeout(timeout).
		Open()

	m.workers = append(m.workers, jobWorker)
	m.logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", maxJobsActive),
		zap.Duration("timeout", timeout),
	)
}

// Close stops every tracked worker, waiting for in-flight jobs.
func (m *WorkerManager) Close() {
	for _, w := range m.workers {
		w.Close()
		w.AwaitClose()
	}
	m.logger.Info("all workers stopped", zap.Int("count", len(m.workers)))
}
