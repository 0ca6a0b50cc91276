package testutil

import (
	"context"
	"sync"

	"audio-digest/internal/app/api"
)

// MockSummarizer is a configurable implementation of the api.Summarizer
// interface.
type MockSummarizer struct {
	mu sync.Mutex

	DefaultSummary string
	DefaultError   error

	Requests []api.SummaryRequest
}

// NewMockSummarizer creates a new MockSummarizer with a structured default
// reply resembling a real model response.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{
		DefaultSummary: "# Mock Meeting\n\n## Summary\nA short mock summary.\n\n## Main Points\n- first point\n- second point\n",
	}
}

// WithDefaultSummary sets the Markdown returned for every request.
func (m *MockSummarizer) WithDefaultSummary(summary string) *MockSummarizer {
	m.DefaultSummary = summary
	return m
}

// WithError makes every call fail with err.
func (m *MockSummarizer) WithError(err error) *MockSummarizer {
	m.DefaultError = err
	return m
}

// Summarize implements the api.Summarizer interface
func (m *MockSummarizer) Summarize(ctx context.Context, req api.SummaryRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.DefaultError != nil {
		return "", m.DefaultError
	}
	return m.DefaultSummary, nil
}

// CallCount returns how many times Summarize was invoked.
func (m *MockSummarizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

var _ api.Summarizer = (*MockSummarizer)(nil)
