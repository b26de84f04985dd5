// internal/search/engine/engine.go

// Package engine orchestrates one aggregated scholarship search from raw
// request to response envelope.
package engine

import (
	"context"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/search/aggregate"
	"scholarship-workers/internal/search/criteria"
	"scholarship-workers/internal/search/score"
)

// Enricher is the optional text-analysis pass. A nil analysis is a valid
// outcome; the envelope simply omits it.
type Enricher interface {
	Analyze(ctx context.Context, results []models.ScholarshipResult) *models.TextAnalysis
}

type Engine struct {
	normalizer *criteria.Normalizer
	aggregator *aggregate.Aggregator
	enricher   Enricher
	obs        *observability.Observability
	logger     logger.Logger
}

// New builds an engine. enricher and obs may be nil when text analysis
// or telemetry is disabled.
func New(normalizer *criteria.Normalizer, aggregator *aggregate.Aggregator, enricher Enricher, obs *observability.Observability, log logger.Logger) *Engine {
	return &Engine{
		normalizer: normalizer,
		aggregator: aggregator,
		enricher:   enricher,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "search-engine"}),
	}
}

// Search runs the full pipeline. It fails only on criteria validation;
// every downstream failure degrades the envelope instead.
func (e *Engine) Search(ctx context.Context, raw map[string]interface{}) (*models.SearchResponse, error) {
	start := time.Now()

	crit, maxResults, err := e.normalizer.Normalize(raw)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("validation_failed").Inc()
		if e.obs != nil {
			e.obs.RecordSearchProcessed(ctx, "validation_failed")
		}
		return nil, err
	}

	out := e.aggregator.Aggregate(ctx, crit, maxResults)

	ranked := score.Rank(out.Results, crit)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	var analysis *models.TextAnalysis
	if e.enricher != nil && len(ranked) > 0 {
		analysis = e.enricher.Analyze(ctx, ranked)
	}

	elapsed := time.Since(start)
	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.WithLabelValues("ok").Observe(elapsed.Seconds())
	if e.obs != nil {
		e.obs.RecordSearchProcessed(ctx, "ok")
		e.obs.RecordSearchDuration(ctx, elapsed, "ok")
	}

	sourcesUsed := out.SourcesUsed
	if sourcesUsed == nil {
		sourcesUsed = []string{}
	}
	if ranked == nil {
		ranked = []models.ScholarshipResult{}
	}

	e.logger.Info("search completed", map[string]interface{}{
		"totalFound":       len(ranked),
		"sourcesUsed":      sourcesUsed,
		"processingTimeMs": elapsed.Milliseconds(),
	})

	return &models.SearchResponse{
		Scholarships:    ranked,
		TotalFound:      len(ranked),
		SearchTimestamp: time.Now().UTC().Format(time.RFC3339),
		Metadata: models.SearchMetadata{
			SourcesUsed:      sourcesUsed,
			ProcessingTimeMs: elapsed.Milliseconds(),
			Analysis:         analysis,
		},
	}, nil
}
