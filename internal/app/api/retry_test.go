package api_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-digest/internal/app/api"
	"audio-digest/pkg/logger"
)

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := api.WithRetry(context.Background(), logger.Nop(), "transcribe", func() (string, error) {
		calls++
		return "hello", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
	assert.Equal(t, 1, calls)
}

func TestWithRetryNonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	badRequest := &openai.APIError{HTTPStatusCode: 400, Message: "unsupported audio format"}
	_, err := api.WithRetry(context.Background(), logger.Nop(), "transcribe", func() (string, error) {
		calls++
		return "", badRequest
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *openai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.HTTPStatusCode)
}

func TestWithRetryRecoversFromRateLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that sleeps through a backoff window")
	}

	calls := 0
	result, err := api.WithRetry(context.Background(), logger.Nop(), "transcribe", func() (string, error) {
		calls++
		if calls == 1 {
			return "", &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}
		}
		return "second time lucky", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", result)
	assert.Equal(t, 2, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that sleeps through backoff windows")
	}

	calls := 0
	_, err := api.WithRetry(context.Background(), logger.Nop(), "summarize", func() (string, error) {
		calls++
		return "", &openai.APIError{HTTPStatusCode: 503, Message: "overloaded"}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "summarize failed after 3 attempts")

	var apiErr *openai.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestWithRetryStopsWhenContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	_, err := api.WithRetry(ctx, logger.Nop(), "transcribe", func() (string, error) {
		calls++
		return "", fmt.Errorf("connection reset")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
	// the first backoff window is at least a second; cancellation must not wait it out
	assert.Less(t, time.Since(start), time.Second)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "bad request", err: &openai.APIError{HTTPStatusCode: 400}, want: false},
		{name: "unauthorized", err: &openai.APIError{HTTPStatusCode: 401}, want: false},
		{name: "request timeout", err: &openai.APIError{HTTPStatusCode: 408}, want: true},
		{name: "rate limited", err: &openai.APIError{HTTPStatusCode: 429}, want: true},
		{name: "server error", err: &openai.APIError{HTTPStatusCode: 500}, want: true},
		{name: "bad gateway", err: &openai.APIError{HTTPStatusCode: 502}, want: true},
		{name: "wrapped rate limit", err: fmt.Errorf("chunk 3: %w", &openai.APIError{HTTPStatusCode: 429}), want: true},
		{name: "wrapped unauthorized", err: fmt.Errorf("chunk 3: %w", &openai.APIError{HTTPStatusCode: 401}), want: false},
		{name: "transport error", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, want: true},
		{name: "plain error", err: errors.New("EOF"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.IsRetryable(tt.err))
		})
	}
}
