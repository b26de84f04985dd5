// internal/workers/scholarship/store-scholarship/models.go
package storescholarship

import "scholarship-workers/internal/models"

type Input struct {
	Scholarship models.ScholarshipResult `json:"scholarship"`
}

type Output struct {
	ScholarshipID string `json:"scholarshipId"`
	Status        string `json:"status"`
	StoredAt      string `json:"storedAt"` // ISO 8601
}
