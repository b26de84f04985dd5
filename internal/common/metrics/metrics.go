// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarship_searches_total",
			Help: "Total number of scholarship searches by outcome",
		},
		[]string{"status"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "scholarship_search_duration_seconds",
			Help: "End-to-end duration of one aggregated search",
		},
		[]string{"status"},
	)

	AdapterResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarship_adapter_results_total",
			Help: "Number of results produced per source adapter",
		},
		[]string{"source"},
	)

	AdapterFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarship_adapter_failures_total",
			Help: "Absorbed adapter failures by source and error code",
		},
		[]string{"source", "error_code"},
	)

	AdapterDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "scholarship_adapter_duration_seconds",
			Help: "Duration of one source adapter call",
		},
		[]string{"source"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
