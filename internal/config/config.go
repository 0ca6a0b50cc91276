package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUploadLimitBytes is the request-size ceiling of the hosted
	// transcription endpoint. Files above the effective limit get chunked.
	DefaultUploadLimitBytes = 25 * 1024 * 1024
	// DefaultChunkMarginBytes is subtracted from the ceiling so container
	// overhead cannot push an encoded chunk over the limit.
	DefaultChunkMarginBytes = 512 * 1024

	apiKeyPlaceholder = "YOUR_API_KEY"
)

// Config is the full a2s configuration, loaded from a2s.yaml with defaults
// for anything unset.
type Config struct {
	General      GeneralConfig      `yaml:"general"`
	OpenAI       OpenAIConfig       `yaml:"openai"`
	Gemini       GeminiConfig       `yaml:"gemini"`
	Summary      SummaryConfig      `yaml:"summary"`
	WhisperAPI   WhisperAPIConfig   `yaml:"whisper_api"`
	WhisperLocal WhisperLocalConfig `yaml:"whisper_local"`
	Paths        PathsConfig        `yaml:"paths"`
	Ledger       LedgerConfig       `yaml:"ledger"`
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`

	// Warnings collected while resolving keys, surfaced by the CLI once the
	// logger exists.
	Warnings []string `yaml:"-"`
}

type GeneralConfig struct {
	Method   string `yaml:"method" validate:"oneof=api local"`
	Language string `yaml:"language" validate:"oneof=en de"`
}

type OpenAIConfig struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	SummaryModel string `yaml:"summary_model" validate:"required"`
}

type GeminiConfig struct {
	APIKey       string `yaml:"api_key"`
	SummaryModel string `yaml:"summary_model" validate:"required"`
}

type SummaryConfig struct {
	Provider   string `yaml:"provider" validate:"oneof=openai gemini"`
	PromptFile string `yaml:"prompt_file" validate:"required"`
}

type WhisperAPIConfig struct {
	Model            string `yaml:"model" validate:"required"`
	MaxUploadBytes   int64  `yaml:"max_upload_bytes" validate:"gt=0"`
	ChunkMarginBytes int64  `yaml:"chunk_margin_bytes" validate:"gte=0"`
	ChunkWorkers     int    `yaml:"chunk_workers" validate:"gte=1"`
}

type WhisperLocalConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
}

type PathsConfig struct {
	AudioDir  string `yaml:"audio_dir" validate:"required"`
	OutputDir string `yaml:"output_dir" validate:"required"`
	LogFile   string `yaml:"log_file"`
}

type LedgerConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	DBPath string `yaml:"db_path"`
	DSN    string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"hostname_port"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// Default returns the configuration used when no a2s.yaml exists.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			Method:   "api",
			Language: "en",
		},
		OpenAI: OpenAIConfig{
			SummaryModel: "gpt-4o",
		},
		Gemini: GeminiConfig{
			SummaryModel: "gemini-2.0-flash",
		},
		Summary: SummaryConfig{
			Provider:   "openai",
			PromptFile: "summary_prompt.txt",
		},
		WhisperAPI: WhisperAPIConfig{
			Model:            "whisper-1",
			MaxUploadBytes:   DefaultUploadLimitBytes,
			ChunkMarginBytes: DefaultChunkMarginBytes,
			ChunkWorkers:     3,
		},
		Paths: PathsConfig{
			AudioDir:  "audio",
			OutputDir: "output",
		},
		Ledger: LedgerConfig{
			Driver: "sqlite",
			DBPath: filepath.Join("data", "ledger.db"),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8844",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Scaffold returns the configuration written by "config init": the defaults
// with placeholder key fields the user is expected to edit. The placeholder
// is treated as unset when the file is loaded back.
func Scaffold() *Config {
	cfg := Default()
	cfg.OpenAI.APIKey = apiKeyPlaceholder
	cfg.Gemini.APIKey = apiKeyPlaceholder
	return cfg
}

// Load reads the configuration. Search order: the explicit path, $A2S_CONFIG,
// ./a2s.yaml, then <user config dir>/a2s/a2s.yaml. When none exists the
// defaults are returned as-is.
func Load(explicitPath string) (*Config, error) {
	path, err := resolveConfigPath(explicitPath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.expandEnvironmentVariables()
	cfg.fillDefaults()
	cfg.resolveAPIKeys()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func resolveConfigPath(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	candidates := []string{os.Getenv("A2S_CONFIG"), "a2s.yaml"}
	if userDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(userDir, "a2s", "a2s.yaml"))
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// expandEnvironmentVariables expands ${VAR} references in the string fields
// an operator would point at secrets or machine-specific locations.
func (c *Config) expandEnvironmentVariables() {
	fields := []*string{
		&c.OpenAI.APIKey, &c.OpenAI.BaseURL,
		&c.Gemini.APIKey,
		&c.WhisperLocal.BinaryPath, &c.WhisperLocal.ModelPath,
		&c.Paths.AudioDir, &c.Paths.OutputDir, &c.Paths.LogFile,
		&c.Summary.PromptFile,
		&c.Ledger.DBPath, &c.Ledger.DSN,
	}
	for _, field := range fields {
		if strings.Contains(*field, "${") {
			*field = os.ExpandEnv(*field)
		}
	}
}

// fillDefaults backfills zero values so a sparse a2s.yaml keeps working.
func (c *Config) fillDefaults() {
	def := Default()
	if c.General.Method == "" {
		c.General.Method = def.General.Method
	}
	if c.General.Language == "" {
		c.General.Language = def.General.Language
	}
	if c.OpenAI.SummaryModel == "" {
		c.OpenAI.SummaryModel = def.OpenAI.SummaryModel
	}
	if c.Gemini.SummaryModel == "" {
		c.Gemini.SummaryModel = def.Gemini.SummaryModel
	}
	if c.Summary.Provider == "" {
		c.Summary.Provider = def.Summary.Provider
	}
	if c.Summary.PromptFile == "" {
		c.Summary.PromptFile = def.Summary.PromptFile
	}
	if c.WhisperAPI.Model == "" {
		c.WhisperAPI.Model = def.WhisperAPI.Model
	}
	if c.WhisperAPI.MaxUploadBytes == 0 {
		c.WhisperAPI.MaxUploadBytes = def.WhisperAPI.MaxUploadBytes
	}
	if c.WhisperAPI.ChunkMarginBytes == 0 {
		c.WhisperAPI.ChunkMarginBytes = def.WhisperAPI.ChunkMarginBytes
	}
	if c.WhisperAPI.ChunkWorkers == 0 {
		c.WhisperAPI.ChunkWorkers = def.WhisperAPI.ChunkWorkers
	}
	if c.Paths.AudioDir == "" {
		c.Paths.AudioDir = def.Paths.AudioDir
	}
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = def.Paths.OutputDir
	}
	if c.Ledger.Driver == "" {
		c.Ledger.Driver = def.Ledger.Driver
	}
	if c.Ledger.DBPath == "" {
		c.Ledger.DBPath = def.Ledger.DBPath
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
}

// Validate checks the configuration shape plus the cross-field rules the
// struct tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.WhisperAPI.ChunkMarginBytes >= c.WhisperAPI.MaxUploadBytes {
		return fmt.Errorf("invalid configuration: chunk_margin_bytes (%d) must be below max_upload_bytes (%d)",
			c.WhisperAPI.ChunkMarginBytes, c.WhisperAPI.MaxUploadBytes)
	}
	if c.Ledger.Driver == "postgres" && c.Ledger.DSN == "" {
		return fmt.Errorf("invalid configuration: ledger.dsn is required when ledger.driver is postgres")
	}
	if c.General.Method == "local" {
		if c.WhisperLocal.BinaryPath == "" || c.WhisperLocal.ModelPath == "" {
			return fmt.Errorf("invalid configuration: whisper_local.binary_path and model_path are required when general.method is local")
		}
	}
	return nil
}
