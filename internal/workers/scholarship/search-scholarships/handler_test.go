package searchscholarships

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
)

type stubSearcher struct {
	response *models.SearchResponse
	err      error
	gotRaw   map[string]interface{}
}

func (s *stubSearcher) Search(_ context.Context, raw map[string]interface{}) (*models.SearchResponse, error) {
	s.gotRaw = raw
	return s.response, s.err
}

func newHandler(searcher Searcher, t *testing.T) *Handler {
	return NewHandler(LoadConfig(), searcher, logger.NewTestLogger(t))
}

func TestExecute_WrapsResponseInOutputVariable(t *testing.T) {
	searcher := &stubSearcher{response: &models.SearchResponse{
		Scholarships: []models.ScholarshipResult{{Title: "STEM Award", Source: "dynamodb"}},
		TotalFound:   1,
		Metadata:     models.SearchMetadata{SourcesUsed: []string{"dynamodb"}},
	}}
	handler := newHandler(searcher, t)

	input := Input{
		"searchCriteria": map[string]interface{}{"keywords": "stem"},
		"maxResults":     5,
	}
	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, output.SearchResults)
	assert.Equal(t, 1, output.SearchResults.TotalFound)
	// The raw variables pass through untouched; validation happens downstream.
	assert.Equal(t, map[string]interface{}(input), searcher.gotRaw)
}

func TestExecute_ValidationErrorPropagates(t *testing.T) {
	searcher := &stubSearcher{err: errors.NewValidationFailedError("academicLevel must be one of the known levels")}
	handler := newHandler(searcher, t)

	output, err := handler.Execute(context.Background(), Input{})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, 0, errors.GetRetryCount(errors.ErrCodeValidationFailed))
}
