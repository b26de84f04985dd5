// internal/workers/scholarship/search-scholarships/handler.go
package searchscholarships

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "scholarship-search"
)

// Searcher runs one aggregated search. Only criteria validation may
// surface as an error; source failures degrade inside the response.
type Searcher interface {
	Search(ctx context.Context, raw map[string]interface{}) (*models.SearchResponse, error)
}

type Handler struct {
	config    *Config
	searcher  Searcher
	logger    logger.Logger
	errHandle *errors.ErrorHandler
}

func NewHandler(config *Config, searcher Searcher, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		searcher:  searcher,
		logger:    scoped,
		errHandle: errors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeValidationFailed)).Inc()
		h.errHandle.HandleJobError(ctx, client, job, errors.NewValidationFailedError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode(err)).Inc()
		h.errHandle.HandleJobError(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input Input) (*Output, error) {
	response, err := h.searcher.Search(ctx, input)
	if err != nil {
		return nil, err
	}

	h.logger.Info("scholarship search finished", map[string]interface{}{
		"totalFound":  response.TotalFound,
		"sourcesUsed": response.Metadata.SourcesUsed,
	})

	return &Output{SearchResults: response}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input Input) (*Output, error) {
	return h.execute(ctx, input)
}

func errorCode(err error) string {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}
