// internal/search/sources/scrape/careeronestop.go
package scrape

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"scholarship-workers/internal/search/normalize"
)

const SiteCareerOneStop = "careeronestop"

// parseCareerOneStop tries the card layout first, then JSON-LD metadata,
// then the legacy results table. The site has shipped all three.
func parseCareerOneStop(doc *goquery.Document) []normalize.RawRecord {
	if records := careerOneStopCards(doc); len(records) > 0 {
		return records
	}
	if records := careerOneStopJSONLD(doc); len(records) > 0 {
		return records
	}
	return careerOneStopTable(doc)
}

func careerOneStopCards(doc *goquery.Document) []normalize.RawRecord {
	var records []normalize.RawRecord

	doc.Find(".scholarship-item, .scholarship-entry, .scholarship-card").Each(func(_ int, sel *goquery.Selection) {
		title := textOrEmpty(sel, ".scholarship-title, .title, h3, h4")
		if title == "" {
			return
		}

		record := normalize.RawRecord{
			"title":       title,
			"description": textOr(sel, ".scholarship-description, .description, p", unspecified),
			"amount":      textOr(sel, ".scholarship-amount, .amount, .award", "Amount varies"),
			"deadline":    textOr(sel, ".scholarship-deadline, .deadline", unspecified),
			"eligibility": textOr(sel, ".scholarship-eligibility, .eligibility", unspecified),
		}
		if href, ok := sel.Find("a").First().Attr("href"); ok {
			record["url"] = href
		}
		records = append(records, record)
	})

	return records
}

func careerOneStopJSONLD(doc *goquery.Document) []normalize.RawRecord {
	var records []normalize.RawRecord

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return
		}

		items, ok := payload["itemListElement"].([]interface{})
		if !ok {
			return
		}

		for _, raw := range items {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if nested, ok := entry["item"].(map[string]interface{}); ok {
				entry = nested
			}

			name, _ := entry["name"].(string)
			if name == "" {
				continue
			}
			record := normalize.RawRecord{
				"title":       name,
				"description": stringOr(entry["description"], unspecified),
				"amount":      stringOr(entry["amount"], "Amount varies"),
				"deadline":    stringOr(entry["deadline"], unspecified),
			}
			if url, ok := entry["url"].(string); ok {
				record["url"] = url
			}
			records = append(records, record)
		}
	})

	return records
}

// careerOneStopTable walks the results table: columns are name, level of
// study, award type, deadline, amount.
func careerOneStopTable(doc *goquery.Document) []normalize.RawRecord {
	var records []normalize.RawRecord

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		title := strings.TrimSpace(cells.Eq(0).Text())
		if title == "" {
			return
		}

		record := normalize.RawRecord{
			"title":         title,
			"academicLevel": cellOr(cells, 1, unspecified),
			"description":   cellOr(cells, 2, unspecified),
			"deadline":      cellOr(cells, 3, unspecified),
			"amount":        cellOr(cells, 4, "Amount varies"),
		}
		if href, ok := cells.Eq(0).Find("a").Attr("href"); ok {
			record["url"] = href
		}
		records = append(records, record)
	})

	return records
}

func cellOr(cells *goquery.Selection, i int, fallback string) string {
	if i >= cells.Length() {
		return fallback
	}
	if text := strings.TrimSpace(cells.Eq(i).Text()); text != "" {
		return text
	}
	return fallback
}

func textOrEmpty(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

func textOr(sel *goquery.Selection, selector, fallback string) string {
	if text := textOrEmpty(sel, selector); text != "" {
		return text
	}
	return fallback
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
