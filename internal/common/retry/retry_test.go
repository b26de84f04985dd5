package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultConfig, func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	cfg := Config{Attempts: 2, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

	calls := 0
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsBudget(t *testing.T) {
	cfg := Config{Attempts: 2, BaseDelay: time.Millisecond}

	wantErr := errors.New("still down")
	calls := 0
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return wantErr
	})

	assert.Equal(t, wantErr, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnContextCancel(t *testing.T) {
	cfg := Config{Attempts: 5, BaseDelay: time.Second}

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- Do(ctx, cfg, func(ctx context.Context) error {
			calls++
			return errors.New("transient")
		})
	}()

	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("retry loop did not observe cancellation")
	}
	assert.Equal(t, 1, calls)
}
