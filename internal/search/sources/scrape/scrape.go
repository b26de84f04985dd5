// internal/search/sources/scrape/scrape.go

// Package scrape implements the HTML source adapters. Extraction policy
// is site-specific; fetching, retry, and politeness are shared.
package scrape

import (
	"context"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"scholarship-workers/internal/common/errors"
	httpclient "scholarship-workers/internal/common/http"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/retry"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/search/normalize"
)

// unspecified is the sentinel substituted for missing sub-fields so a
// sparse listing still yields a whole record.
const unspecified = "unspecified"

// parseFunc extracts raw records from one fetched page.
type parseFunc func(doc *goquery.Document) []normalize.RawRecord

// Throttle enforces a minimum gap between successive outbound fetches
// across all scrape adapters, since they run concurrently.
type Throttle struct {
	mu    sync.Mutex
	last  time.Time
	delay time.Duration
}

func NewThrottle(delay time.Duration) *Throttle {
	return &Throttle{delay: delay}
}

// Wait blocks until the politeness gap has elapsed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.delay <= 0 {
		return nil
	}

	t.mu.Lock()
	now := time.Now()
	next := t.last.Add(t.delay)
	if next.Before(now) {
		next = now
	}
	t.last = next
	t.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Adapter scrapes one configured site.
type Adapter struct {
	site     models.ScrapeSite
	client   *httpclient.Client
	parse    parseFunc
	retryCfg retry.Config
	throttle *Throttle
	logger   logger.Logger
}

func newAdapter(site models.ScrapeSite, client *httpclient.Client, parse parseFunc, retryCfg retry.Config, throttle *Throttle, log logger.Logger) *Adapter {
	return &Adapter{
		site:     site,
		client:   client,
		parse:    parse,
		retryCfg: retryCfg,
		throttle: throttle,
		logger:   log.WithFields(map[string]interface{}{"component": "scrape-adapter", "site": site.Name}),
	}
}

func (a *Adapter) Name() string {
	return a.site.Name
}

func (a *Adapter) BaseURL() string {
	return a.site.URL
}

// Search fetches the site's listing page with bounded retries and parses
// it. The criteria do not shape the fetch; relevance filtering happens
// downstream in the scorer.
func (a *Adapter) Search(ctx context.Context, _ *models.SearchCriteria) ([]models.ScholarshipResult, error) {
	var records []normalize.RawRecord

	err := retry.Do(ctx, a.retryCfg, func(ctx context.Context) error {
		if err := a.throttle.Wait(ctx); err != nil {
			return err
		}

		resp, err := a.client.Get(ctx, a.fetchURL())
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return err
		}

		records = a.parse(doc)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewUpstreamTimeoutError(a.site.Name)
		}
		return nil, errors.NewAdapterFailureError(a.site.Name, err)
	}

	a.logger.Debug("page scraped", map[string]interface{}{"records": len(records)})
	return normalize.Records(records, a.site.Name, a.site.URL), nil
}

func (a *Adapter) fetchURL() string {
	if a.site.SearchURL != "" {
		return a.site.SearchURL
	}
	return a.site.URL
}

// NewAdapters builds one adapter per configured site. Sites without a
// registered extraction policy are skipped with a warning.
func NewAdapters(sites []models.ScrapeSite, client *httpclient.Client, retryCfg retry.Config, throttle *Throttle, log logger.Logger) []*Adapter {
	parsers := map[string]parseFunc{
		SiteCareerOneStop:       parseCareerOneStop,
		SiteCollegeScholarships: parseCollegeScholarships,
	}

	adapters := make([]*Adapter, 0, len(sites))
	for _, site := range sites {
		parse, ok := parsers[site.Name]
		if !ok {
			log.Warn("no extraction policy for scrape site, skipping", map[string]interface{}{
				"site": site.Name,
			})
			continue
		}
		adapters = append(adapters, newAdapter(site, client, parse, retryCfg, throttle, log))
	}
	return adapters
}

// DefaultSites is the scrape site catalog.
var DefaultSites = []models.ScrapeSite{
	{
		Name:      SiteCareerOneStop,
		URL:       "https://www.careeronestop.org",
		SearchURL: "https://www.careeronestop.org/toolkit/training/find-scholarships.aspx",
	},
	{
		Name:      SiteCollegeScholarships,
		URL:       "https://www.collegescholarships.org",
		SearchURL: "https://www.collegescholarships.org/scholarships/",
	},
}
