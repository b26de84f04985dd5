// internal/search/sources/scrape/collegescholarships.go
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"scholarship-workers/internal/search/normalize"
)

const SiteCollegeScholarships = "collegescholarships"

// parseCollegeScholarships extracts the listing rows. Each row carries a
// summary block with the title and amount, a description block, and an
// icon list whose Font Awesome classes identify the detail kind.
func parseCollegeScholarships(doc *goquery.Document) []normalize.RawRecord {
	var records []normalize.RawRecord

	doc.Find(".row").Each(func(_ int, row *goquery.Selection) {
		summary := row.Find(".scholarship-summary")
		if summary.Length() == 0 {
			return
		}

		title := strings.TrimSpace(summary.Find("h4, h3, a").First().Text())
		if title == "" {
			return
		}

		record := normalize.RawRecord{
			"title":       title,
			"description": textOr(row, ".scholarship-description", unspecified),
			"amount":      textOr(summary, ".scholarship-amount, .amount", "Amount varies"),
			"deadline":    textOr(summary, ".scholarship-deadline, .deadline", unspecified),
		}
		if href, ok := summary.Find("a").First().Attr("href"); ok {
			record["url"] = href
		}

		// The fa-ul detail list tags each item with an icon class.
		var eligibility []string
		row.Find("ul.fa-ul li, ul li").Each(func(_ int, li *goquery.Selection) {
			text := strings.TrimSpace(li.Text())
			if text == "" {
				return
			}
			icon := li.Find("i, span.fa").First()
			class, _ := icon.Attr("class")
			switch {
			case strings.Contains(class, "fa-map-marker"):
				record["geographicRestrictions"] = text
			case strings.Contains(class, "fa-graduation-cap"):
				record["academicLevel"] = text
			default:
				eligibility = append(eligibility, text)
			}
		})
		if len(eligibility) > 0 {
			record["eligibility"] = strings.Join(eligibility, ", ")
		} else {
			record["eligibility"] = unspecified
		}

		records = append(records, record)
	})

	return records
}
