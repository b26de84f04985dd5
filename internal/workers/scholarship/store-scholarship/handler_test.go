package storescholarship

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
)

type stubStore struct {
	id  string
	err error
	got models.ScholarshipResult
}

func (s *stubStore) StoreScholarship(_ context.Context, result models.ScholarshipResult) (string, error) {
	s.got = result
	return s.id, s.err
}

func TestExecute_StoresAndReturnsIdentifier(t *testing.T) {
	store := &stubStore{id: "d7c3f9a2-1b7e-4f0e-9a4c-2f8d6e1b5a90"}
	handler := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Scholarship: models.ScholarshipResult{
			Title:  "Rural Nursing Award",
			Amount: "$2,500",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, store.id, output.ScholarshipID)
	assert.Equal(t, "stored", output.Status)
	assert.Equal(t, "Rural Nursing Award", store.got.Title)

	_, parseErr := time.Parse(time.RFC3339, output.StoredAt)
	assert.NoError(t, parseErr)
}

func TestExecute_ValidationErrorPropagates(t *testing.T) {
	store := &stubStore{err: errors.NewValidationFailedError("title is required")}
	handler := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.IsValidationError(err))
}

func TestExecute_StoreFailureIsRetryable(t *testing.T) {
	store := &stubStore{err: errors.NewStoreFailureError("PutItem", assert.AnError)}
	handler := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		Scholarship: models.ScholarshipResult{Title: "Any"},
	})

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeStoreFailure, stdErr.Code)
	assert.Equal(t, 3, errors.GetRetryCount(stdErr.Code))
}
