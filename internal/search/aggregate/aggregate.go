// internal/search/aggregate/aggregate.go

// Package aggregate fans a search out to every configured source adapter,
// tolerates individual failures, and merges what settled in time.
package aggregate

import (
	"context"
	"strings"
	"time"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/search/normalize"
)

// Adapter is one source in the fan-out. A failing adapter must never
// abort the others.
type Adapter interface {
	Name() string
	BaseURL() string
	Search(ctx context.Context, crit *models.SearchCriteria) ([]models.ScholarshipResult, error)
}

// FallbackLister supplies the bounded default listing used only when the
// criteria carried no constraint at all.
type FallbackLister interface {
	ListActive(ctx context.Context, limit int) ([]normalize.RawRecord, error)
}

// Result is the merged fan-out outcome prior to scoring.
type Result struct {
	Results []models.ScholarshipResult
	// SourcesUsed lists adapters that contributed at least one result,
	// not every adapter attempted.
	SourcesUsed []string
}

type Aggregator struct {
	adapters          []Adapter
	fallback          FallbackLister
	perAdapterTimeout time.Duration
	overallTimeout    time.Duration
	logger            logger.Logger
}

func New(adapters []Adapter, fallback FallbackLister, perAdapterTimeout, overallTimeout time.Duration, log logger.Logger) *Aggregator {
	return &Aggregator{
		adapters:          adapters,
		fallback:          fallback,
		perAdapterTimeout: perAdapterTimeout,
		overallTimeout:    overallTimeout,
		logger:            log.WithFields(map[string]interface{}{"component": "aggregator"}),
	}
}

type settled struct {
	name    string
	results []models.ScholarshipResult
	err     error
}

// Aggregate invokes every adapter concurrently and waits for all of them
// to settle, up to the overall deadline; on expiry it proceeds with
// whatever completed. Failures are logged and absorbed, never propagated.
func (a *Aggregator) Aggregate(ctx context.Context, crit *models.SearchCriteria, maxResults int) Result {
	ch := make(chan settled, len(a.adapters))

	for _, adapter := range a.adapters {
		go func(adapter Adapter) {
			start := time.Now()

			callCtx := ctx
			var cancel context.CancelFunc
			if a.perAdapterTimeout > 0 {
				callCtx, cancel = context.WithTimeout(ctx, a.perAdapterTimeout)
				defer cancel()
			}

			results, err := adapter.Search(callCtx, crit)
			metrics.AdapterDuration.WithLabelValues(adapter.Name()).Observe(time.Since(start).Seconds())
			ch <- settled{name: adapter.Name(), results: results, err: err}
		}(adapter)
	}

	var overall <-chan time.Time
	if a.overallTimeout > 0 {
		timer := time.NewTimer(a.overallTimeout)
		defer timer.Stop()
		overall = timer.C
	}

	var merged []models.ScholarshipResult
	var sourcesUsed []string

	pending := len(a.adapters)
collect:
	for pending > 0 {
		select {
		case s := <-ch:
			pending--
			if s.err != nil {
				a.absorbFailure(s.name, s.err)
				continue
			}
			metrics.AdapterResults.WithLabelValues(s.name).Add(float64(len(s.results)))
			if len(s.results) > 0 {
				sourcesUsed = append(sourcesUsed, s.name)
				merged = append(merged, s.results...)
			}
		case <-overall:
			a.logger.Warn("overall search deadline reached, abandoning outstanding adapters", map[string]interface{}{
				"outstanding": pending,
			})
			break collect
		case <-ctx.Done():
			break collect
		}
	}

	merged = Dedupe(merged)

	if len(merged) == 0 && crit.IsEmpty() && a.fallback != nil {
		merged = a.defaultListing(ctx, maxResults)
		if len(merged) > 0 {
			sourcesUsed = append(sourcesUsed, models.SourceDynamoDB)
		}
	}

	return Result{Results: merged, SourcesUsed: sourcesUsed}
}

func (a *Aggregator) absorbFailure(source string, err error) {
	code := errors.ErrCodeAdapterFailure
	if stdErr, ok := err.(*errors.StandardError); ok {
		code = stdErr.Code
	}
	metrics.AdapterFailures.WithLabelValues(source, string(code)).Inc()
	a.logger.WithError(err).Warn("source adapter failed, contributing zero results", map[string]interface{}{
		"source":    source,
		"errorCode": string(code),
	})
}

// defaultListing is the empty-criteria fallback: a bounded page of active
// records. It must never run when any criterion was specified.
func (a *Aggregator) defaultListing(ctx context.Context, limit int) []models.ScholarshipResult {
	records, err := a.fallback.ListActive(ctx, limit)
	if err != nil {
		a.absorbFailure(models.SourceDynamoDB, err)
		return nil
	}
	return normalize.Records(records, models.SourceDynamoDB, "")
}

// Dedupe removes duplicates by (lowercase title, source), keeping the
// first occurrence. The key is deliberately source-scoped: the same
// scholarship catalogued by two sources stays as two results.
func Dedupe(results []models.ScholarshipResult) []models.ScholarshipResult {
	seen := make(map[string]struct{}, len(results))
	out := results[:0]
	for _, r := range results {
		key := strings.ToLower(r.Title) + "|" + r.Source
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
