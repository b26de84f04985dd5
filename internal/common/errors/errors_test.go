package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableErrorCode(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeAdapterFailure, true},
		{ErrCodeStoreFailure, true},
		{ErrCodeUpstreamTimeout, true},
		{ErrCodeValidationFailed, false},
		{ErrCodeParseFailure, false},
		{ErrCodeScholarshipNotFound, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.code))
			// Retryability and retry budget must agree.
			assert.Equal(t, tt.retryable, GetRetryCount(tt.code) > 0)
		})
	}
}

func TestConvertToBPMNError_RetryableFlagZeroesRetries(t *testing.T) {
	stdErr := NewStoreFailureError("put", assert.AnError)
	stdErr.Retryable = false

	bpmnErr := ConvertToBPMNError(stdErr)
	assert.Equal(t, 0, bpmnErr.Retries)
}
