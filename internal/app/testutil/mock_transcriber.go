package testutil

import (
	"context"
	"sync"

	"audio-digest/internal/app/api"
)

// MockTranscriber is a configurable implementation of the api.Transcriber
// interface for testing transcription scenarios.
type MockTranscriber struct {
	mu sync.Mutex

	DefaultResponse string
	DefaultError    error
	ResponseMap     map[string]string
	ErrorMap        map[string]error

	Calls []string
}

// NewMockTranscriber creates a new MockTranscriber with sensible defaults
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		DefaultResponse: "This is a mock transcription result.",
		ResponseMap:     make(map[string]string),
		ErrorMap:        make(map[string]error),
	}
}

// WithDefaultResponse sets the transcript returned for unmapped files.
func (m *MockTranscriber) WithDefaultResponse(response string) *MockTranscriber {
	m.DefaultResponse = response
	return m
}

// WithError makes every call fail with err.
func (m *MockTranscriber) WithError(err error) *MockTranscriber {
	m.DefaultError = err
	return m
}

// WithResponseFor maps one input path to a specific transcript.
func (m *MockTranscriber) WithResponseFor(inputFilePath, response string) *MockTranscriber {
	m.ResponseMap[inputFilePath] = response
	return m
}

// WithErrorFor makes calls for one input path fail with err.
func (m *MockTranscriber) WithErrorFor(inputFilePath string, err error) *MockTranscriber {
	m.ErrorMap[inputFilePath] = err
	return m
}

// Transcript implements the api.Transcriber interface
func (m *MockTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, inputFilePath)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, exists := m.ErrorMap[inputFilePath]; exists {
		return "", err
	}
	if m.DefaultError != nil {
		return "", m.DefaultError
	}
	if response, exists := m.ResponseMap[inputFilePath]; exists {
		return response, nil
	}
	return m.DefaultResponse, nil
}

// CallCount returns how many times Transcript was invoked.
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

var _ api.Transcriber = (*MockTranscriber)(nil)
