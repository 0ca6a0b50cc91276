package testutil

import (
	"context"
	"sync"

	"audio-digest/pkg/executor"
)

// ExecutedCommand records one Execute invocation.
type ExecutedCommand struct {
	Name string
	Args []string
}

// MockExecutor is a configurable implementation of executor.Executor. Output
// is resolved per binary name, or through Handler when full control over the
// arguments is needed.
type MockExecutor struct {
	mu sync.Mutex

	DefaultOutput string
	OutputMap     map[string]string
	ErrorMap      map[string]error
	Handler       func(name string, args ...string) (string, error)

	Commands []ExecutedCommand
}

// NewMockExecutor creates a MockExecutor that succeeds with empty output.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		OutputMap: make(map[string]string),
		ErrorMap:  make(map[string]error),
	}
}

// WithOutput sets the stdout returned for a binary name.
func (m *MockExecutor) WithOutput(name, output string) *MockExecutor {
	m.OutputMap[name] = output
	return m
}

// WithError makes calls to a binary name fail with err.
func (m *MockExecutor) WithError(name string, err error) *MockExecutor {
	m.ErrorMap[name] = err
	return m
}

// WithHandler routes every call through fn.
func (m *MockExecutor) WithHandler(fn func(name string, args ...string) (string, error)) *MockExecutor {
	m.Handler = fn
	return m
}

// Execute implements the executor.Executor interface
func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, ExecutedCommand{Name: name, Args: args})
	handler := m.Handler
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if handler != nil {
		return handler(name, args...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, exists := m.ErrorMap[name]; exists {
		return "", err
	}
	if output, exists := m.OutputMap[name]; exists {
		return output, nil
	}
	return m.DefaultOutput, nil
}

// CommandsFor returns the recorded invocations of one binary.
func (m *MockExecutor) CommandsFor(name string) []ExecutedCommand {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []ExecutedCommand
	for _, cmd := range m.Commands {
		if cmd.Name == name {
			out = append(out, cmd)
		}
	}
	return out
}

// CallCount returns how many commands ran.
func (m *MockExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Commands)
}

var _ executor.Executor = (*MockExecutor)(nil)
