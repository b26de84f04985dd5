package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "scholarship-workers/internal/common/http"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/retry"
	"scholarship-workers/internal/models"
)

const careerOneStopCardsHTML = `
<html><body>
  <div class="scholarship-item">
    <h3 class="scholarship-title">Future Engineers Grant</h3>
    <p class="scholarship-description">For engineering undergraduates.</p>
    <span class="scholarship-amount">$5,000</span>
    <span class="scholarship-deadline">2026-12-01</span>
    <a href="https://www.careeronestop.org/grant/123">Details</a>
  </div>
  <div class="scholarship-item">
    <h3 class="scholarship-title">Sparse Listing</h3>
  </div>
</body></html>`

const careerOneStopTableHTML = `
<html><body><table><tbody>
  <tr>
    <td><a href="/award/9">Table Award</a></td>
    <td>Undergraduate</td>
    <td>Scholarship</td>
    <td>2026-10-15</td>
    <td>$2,500</td>
  </tr>
  <tr><td></td><td>empty title row</td></tr>
</tbody></table></body></html>`

const collegeScholarshipsHTML = `
<html><body>
  <div class="row">
    <div class="scholarship-summary">
      <h4><a href="/s/nursing-award">Rural Nursing Award</a></h4>
      <span class="scholarship-amount">$3,000</span>
    </div>
    <div class="scholarship-description">Supports nursing students in rural areas.</div>
    <ul class="fa-ul">
      <li><i class="fa fa-map-marker"></i> Montana residents</li>
      <li><i class="fa fa-graduation-cap"></i> College Junior</li>
      <li><i class="fa fa-check"></i> Minimum 3.0 GPA</li>
    </ul>
  </div>
  <div class="row"><div class="unrelated">not a scholarship</div></div>
</body></html>`

func docFrom(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseCareerOneStop_Cards(t *testing.T) {
	records := parseCareerOneStop(docFrom(t, careerOneStopCardsHTML))
	require.Len(t, records, 2)

	assert.Equal(t, "Future Engineers Grant", records[0]["title"])
	assert.Equal(t, "$5,000", records[0]["amount"])
	assert.Equal(t, "https://www.careeronestop.org/grant/123", records[0]["url"])

	// Sparse listing gets sentinels, not dropped.
	assert.Equal(t, "Sparse Listing", records[1]["title"])
	assert.Equal(t, unspecified, records[1]["description"])
	assert.Equal(t, "Amount varies", records[1]["amount"])
}

func TestParseCareerOneStop_TableFallback(t *testing.T) {
	records := parseCareerOneStop(docFrom(t, careerOneStopTableHTML))
	require.Len(t, records, 1)

	assert.Equal(t, "Table Award", records[0]["title"])
	assert.Equal(t, "Undergraduate", records[0]["academicLevel"])
	assert.Equal(t, "$2,500", records[0]["amount"])
	assert.Equal(t, "/award/9", records[0]["url"])
}

func TestParseCareerOneStop_JSONLD(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"itemListElement":[{"item":{"name":"LD Award","description":"From metadata","url":"https://x.org/ld"}}]}
	</script></head><body></body></html>`

	records := parseCareerOneStop(docFrom(t, html))
	require.Len(t, records, 1)
	assert.Equal(t, "LD Award", records[0]["title"])
	assert.Equal(t, "From metadata", records[0]["description"])
}

func TestParseCollegeScholarships(t *testing.T) {
	records := parseCollegeScholarships(docFrom(t, collegeScholarshipsHTML))
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "Rural Nursing Award", record["title"])
	assert.Equal(t, "$3,000", record["amount"])
	assert.Equal(t, "Montana residents", record["geographicRestrictions"])
	assert.Equal(t, "College Junior", record["academicLevel"])
	assert.Equal(t, "Minimum 3.0 GPA", record["eligibility"])
}

func TestAdapter_SearchFetchesAndNormalizes(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(careerOneStopCardsHTML))
	}))
	defer server.Close()

	site := models.ScrapeSite{Name: SiteCareerOneStop, URL: server.URL, SearchURL: server.URL}
	client := httpclient.NewBrowserClient(5*time.Second, "Mozilla/5.0 test-agent")
	a := newAdapter(site, client, parseCareerOneStop, retry.Config{Attempts: 2, BaseDelay: time.Millisecond}, nil, logger.NewTestLogger(t))

	results, err := a.Search(context.Background(), &models.SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Mozilla/5.0 test-agent", gotUA)
	assert.Equal(t, SiteCareerOneStop, results[0].Source)
	// Missing url falls back to the site base.
	assert.Equal(t, server.URL, results[1].URL)
}

func TestAdapter_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(careerOneStopCardsHTML))
	}))
	defer server.Close()

	site := models.ScrapeSite{Name: SiteCareerOneStop, URL: server.URL, SearchURL: server.URL}
	client := httpclient.NewBrowserClient(5*time.Second, "test-agent")
	a := newAdapter(site, client, parseCareerOneStop, retry.Config{Attempts: 2, BaseDelay: time.Millisecond}, nil, logger.NewTestLogger(t))

	results, err := a.Search(context.Background(), &models.SearchCriteria{})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, results, 2)
}

func TestAdapter_PersistentFailureReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	site := models.ScrapeSite{Name: SiteCareerOneStop, URL: server.URL, SearchURL: server.URL}
	client := httpclient.NewBrowserClient(5*time.Second, "test-agent")
	a := newAdapter(site, client, parseCareerOneStop, retry.Config{Attempts: 1, BaseDelay: time.Millisecond}, nil, logger.NewTestLogger(t))

	_, err := a.Search(context.Background(), &models.SearchCriteria{})
	require.Error(t, err)
}

func TestThrottle_EnforcesGap(t *testing.T) {
	throttle := NewThrottle(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, throttle.Wait(ctx))
	require.NoError(t, throttle.Wait(ctx))
	require.NoError(t, throttle.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestNewAdapters_SkipsUnknownSites(t *testing.T) {
	sites := []models.ScrapeSite{
		{Name: SiteCareerOneStop, URL: "https://www.careeronestop.org"},
		{Name: "unknown-site", URL: "https://example.org"},
	}

	adapters := NewAdapters(sites, httpclient.NewBrowserClient(time.Second, "ua"), retry.DefaultConfig, nil, logger.NewTestLogger(t))
	require.Len(t, adapters, 1)
	assert.Equal(t, SiteCareerOneStop, adapters[0].Name())
}
