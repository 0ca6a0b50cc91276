package cliutil

import (
	"fmt"
	"os"

	"audio-digest/internal/config"
)

// Persistent flag values, bound by the root command.
var (
	ConfigPath string
	Verbose    bool
)

// LoadConfig resolves the effective configuration for a subcommand. Key
// warnings go to stderr here because the logger does not exist yet.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return nil, err
	}
	if Verbose {
		cfg.Logging.Level = "debug"
	}
	for _, warning := range cfg.Warnings {
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", warning)
	}
	return cfg, nil
}

// Overrides holds the config fields the processing commands may override from
// the command line. Empty values leave the loaded config untouched.
type Overrides struct {
	Method    string
	Language  string
	OutputDir string
}

// Apply writes the non-empty overrides into cfg and re-validates, since a
// flag can introduce combinations the config file load never saw.
func (o Overrides) Apply(cfg *config.Config) error {
	if o.Method != "" {
		cfg.General.Method = o.Method
	}
	if o.Language != "" {
		cfg.General.Language = o.Language
	}
	if o.OutputDir != "" {
		cfg.Paths.OutputDir = o.OutputDir
	}
	return cfg.Validate()
}
