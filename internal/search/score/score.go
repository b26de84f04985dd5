// internal/search/score/score.go

// Package score implements the additive relevance policy and the ranked
// ordering of aggregated results.
package score

import (
	"math"
	"sort"
	"strings"

	"scholarship-workers/internal/models"
)

// Score computes the relevance of one result against the criteria. It is
// a pure function of its inputs; the source-trust tiebreak lives only in
// the Rank comparator and is never folded into this number.
func Score(result models.ScholarshipResult, crit *models.SearchCriteria) int {
	score := 0

	// Presence baseline.
	if result.Title != "" {
		score++
	}
	if result.Description != "" {
		score++
	}
	if result.Amount != "" {
		score++
	}

	terms := searchTerms(crit)
	if len(terms) > 0 {
		haystack := strings.ToLower(strings.Join([]string{
			result.Eligibility,
			result.Description,
			result.Title,
			result.Organization,
			strings.Join(result.SubjectAreas, " "),
		}, " "))
		titleText := strings.ToLower(result.Title)

		matched := 0
		titleMatches := 0
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				matched++
			}
			if strings.Contains(titleText, term) {
				titleMatches++
			}
		}

		if matched > 0 {
			score += 10
			score += int(math.Round(20 * float64(matched) / float64(len(terms))))
			score += 5 * titleMatches
		}
	}

	// Legacy demographic bonuses.
	if crit != nil {
		level := strings.ToLower(result.AcademicLevel)
		for _, area := range crit.SubjectAreas {
			if area != "" && strings.Contains(level, strings.ToLower(area)) {
				score += 10
				break
			}
		}
		if crit.Gender != nil && *crit.Gender != "" &&
			strings.Contains(strings.ToLower(result.Gender), strings.ToLower(*crit.Gender)) {
			score += 5
		}
		if crit.Ethnicity != nil && *crit.Ethnicity != "" &&
			strings.Contains(strings.ToLower(result.Ethnicity), strings.ToLower(*crit.Ethnicity)) {
			score += 5
		}
	}

	return score
}

// searchTerms builds the lowercase term set: subject areas, target type
// unless it is the catch-all "Both", ethnicity, gender, and each
// whitespace-separated keyword token.
func searchTerms(crit *models.SearchCriteria) []string {
	if crit == nil {
		return nil
	}

	var terms []string
	add := func(s string) {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			terms = append(terms, s)
		}
	}

	for _, area := range crit.SubjectAreas {
		add(area)
	}
	if crit.TargetType != nil && *crit.TargetType != "Both" {
		add(*crit.TargetType)
	}
	if crit.Ethnicity != nil {
		add(*crit.Ethnicity)
	}
	if crit.Gender != nil {
		add(*crit.Gender)
	}
	for _, token := range strings.Fields(crit.Keywords) {
		add(token)
	}

	return terms
}

// Rank scores every result and orders the list: descending by score,
// score ties broken by source trust, remaining ties keep first-seen
// order. The input slice is modified in place.
func Rank(results []models.ScholarshipResult, crit *models.SearchCriteria) []models.ScholarshipResult {
	for i := range results {
		results[i].RelevanceScore = Score(results[i], crit)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		return models.SourceTrust(results[i].Source) > models.SourceTrust(results[j].Source)
	})

	return results
}
