// internal/search/sources/dynamo/adapter.go
package dynamo

import (
	"context"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/search/normalize"
)

// Adapter exposes the store as one source in the aggregated search.
type Adapter struct {
	store *Store
}

func NewAdapter(store *Store) *Adapter {
	return &Adapter{store: store}
}

func (a *Adapter) Name() string {
	return models.SourceDynamoDB
}

func (a *Adapter) BaseURL() string {
	return ""
}

func (a *Adapter) Search(ctx context.Context, crit *models.SearchCriteria) ([]models.ScholarshipResult, error) {
	records, err := a.store.SearchScholarships(ctx, crit, scanFallbackLimit)
	if err != nil {
		return nil, errors.NewAdapterFailureError(models.SourceDynamoDB, err)
	}
	return normalize.Records(records, models.SourceDynamoDB, a.BaseURL()), nil
}
