package api

import (
	"sort"
	"strings"
	"sync"

	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/config"
	"audio-digest/pkg/executor"
	"audio-digest/pkg/logger"
)

// Deps bundles the shared collaborators a transcriber factory may need.
type Deps struct {
	Audio *audio.Processor
	Exec  executor.Executor
	Log   *logger.Logger
}

// Factory builds a Transcriber for one method from configuration.
type Factory func(cfg *config.Config, deps Deps) (Transcriber, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register makes a transcription method available under the given name.
// Provider packages call this from init(); the CLI blank-imports them.
// Registering the same name twice panics, like database/sql drivers.
func Register(method string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("api: Register factory is nil")
	}
	if _, dup := factories[method]; dup {
		panic("api: Register called twice for method " + method)
	}
	factories[method] = factory
}

// NewTranscriber resolves the configured method name to a provider.
func NewTranscriber(method string, cfg *config.Config, deps Deps) (Transcriber, error) {
	registryMu.RLock()
	factory, ok := factories[method]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errors.ErrProviderNotFound,
			"unknown transcription method %q (registered: %s)", method, strings.Join(Methods(), ", "))
	}
	return factory(cfg, deps)
}

// Methods lists the registered method names, sorted.
func Methods() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	methods := make([]string, 0, len(factories))
	for method := range factories {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}
