// internal/workers/scholarship/search-scholarships/models.go
package searchscholarships

import "scholarship-workers/internal/models"

// Input is the raw process-variable payload. Criteria validation happens
// downstream, so the shape stays loose here.
type Input map[string]interface{}

type Output struct {
	SearchResults *models.SearchResponse `json:"searchResults"`
}
