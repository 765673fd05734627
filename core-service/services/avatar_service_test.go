package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"staffhub-backend/shared/utils/retry"
)

func TestPutWithRetryRewindsReaderBetweenAttempts(t *testing.T) {
	data := []byte("fake image bytes")
	cfg := retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond}

	var attempts [][]byte
	err := putWithRetry(context.Background(), cfg, data, func(ctx context.Context, r io.Reader, size int64) error {
		got, readErr := io.ReadAll(r)
		assert.NoError(t, readErr)
		assert.Equal(t, int64(len(data)), size)
		attempts = append(attempts, got)
		if len(attempts) < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Len(t, attempts, 3)
	// Every attempt must see the full payload, not a drained reader.
	for _, got := range attempts {
		assert.Equal(t, data, got)
	}
}

func TestPutWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	cfg := retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond}

	calls := 0
	err := putWithRetry(context.Background(), cfg, []byte("x"), func(ctx context.Context, r io.Reader, size int64) error {
		calls++
		return errors.New("bucket unreachable")
	})

	assert.EqualError(t, err, "bucket unreachable")
	assert.Equal(t, 2, calls)
}

func TestParseFileSize(t *testing.T) {
	assert.Equal(t, int64(5*1024*1024), parseFileSize("5MB"))
	assert.Equal(t, int64(512*1024), parseFileSize("512KB"))
	assert.Equal(t, int64(1024), parseFileSize("1024"))
	// Garbage falls back to the 5MiB default.
	assert.Equal(t, int64(5*1024*1024), parseFileSize("lots"))
	assert.Equal(t, int64(5*1024*1024), parseFileSize("-3MB"))
}
