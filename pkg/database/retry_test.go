package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"database is locked", errors.New("database is locked"), true},
		{"database table is locked", errors.New("database table is locked"), true},
		{"SQLITE_BUSY", errors.New("SQLITE_BUSY"), true},
		{"error code 5", errors.New("error (5): database busy"), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"constraint violation", errors.New("UNIQUE constraint failed: tags.name"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isBusyError(tt.err))
		})
	}
}

func TestRetryDelay_IsCapped(t *testing.T) {
	assert.GreaterOrEqual(t, retryDelay(0), retryBaseDelay)
	assert.Less(t, retryDelay(0), 2*retryBaseDelay)
	assert.Equal(t, retryMaxDelay, retryDelay(10))
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds on first attempt", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries while busy", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry constraint errors", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			return errors.New("UNIQUE constraint failed: studios.name")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 2, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		attempts := 0
		err := retryWithBackoff(ctx, 10, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Less(t, attempts, 10)
	})
}
