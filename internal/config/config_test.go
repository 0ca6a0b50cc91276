package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a2s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.resolveAPIKeys()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "api", cfg.General.Method)
	assert.Equal(t, int64(25*1024*1024), cfg.WhisperAPI.MaxUploadBytes)
	assert.Equal(t, 3, cfg.WhisperAPI.ChunkWorkers)
}

func TestLoadSparseFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "general:\n  language: de\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.General.Language)
	assert.Equal(t, "api", cfg.General.Method)
	assert.Equal(t, "whisper-1", cfg.WhisperAPI.Model)
	assert.Equal(t, "output", cfg.Paths.OutputDir)
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("A2S_TEST_MODEL_DIR", "/opt/models")
	path := writeConfig(t, `
general:
  method: local
whisper_local:
  binary_path: /usr/local/bin/whisper
  model_path: ${A2S_TEST_MODEL_DIR}/ggml-base.bin
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/models/ggml-base.bin", cfg.WhisperLocal.ModelPath)
}

func TestLoadAPIKeyFallback(t *testing.T) {
	tests := []struct {
		name      string
		configKey string
		envKey    string
		wantKey   string
	}{
		{name: "placeholder falls back to env", configKey: "YOUR_API_KEY", envKey: "sk-from-env", wantKey: "sk-from-env"},
		{name: "empty falls back to env", configKey: "", envKey: "sk-from-env", wantKey: "sk-from-env"},
		{name: "explicit key wins", configKey: "sk-from-file", envKey: "sk-from-env", wantKey: "sk-from-file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tt.envKey)
			path := writeConfig(t, "openai:\n  api_key: \""+tt.configKey+"\"\n")

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, cfg.OpenAI.APIKey)
		})
	}
}

func TestLoadKeyFormatWarning(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "not-a-real-key-shape")
	t.Setenv("GEMINI_API_KEY", "")
	path := writeConfig(t, "{}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "sk-")
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown method",
			mutate:  func(c *Config) { c.General.Method = "cloud" },
			wantErr: "invalid configuration",
		},
		{
			name:    "unknown language",
			mutate:  func(c *Config) { c.General.Language = "fr" },
			wantErr: "invalid configuration",
		},
		{
			name:    "margin swallows ceiling",
			mutate:  func(c *Config) { c.WhisperAPI.ChunkMarginBytes = c.WhisperAPI.MaxUploadBytes },
			wantErr: "chunk_margin_bytes",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.Ledger.Driver = "postgres" },
			wantErr: "ledger.dsn",
		},
		{
			name:    "local method without binary",
			mutate:  func(c *Config) { c.General.Method = "local" },
			wantErr: "whisper_local",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestScaffoldPlaceholderTreatedAsUnset(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-scaffold-env")
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "a2s.yaml")
	require.NoError(t, Save(Scaffold(), path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-scaffold-env", loaded.OpenAI.APIKey)
	assert.Empty(t, loaded.Gemini.APIKey)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "a2s.yaml")

	original := Default()
	original.General.Language = "de"
	original.Paths.OutputDir = filepath.Join(dir, "out")
	require.NoError(t, Save(original, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "de", loaded.General.Language)
	assert.Equal(t, original.Paths.OutputDir, loaded.Paths.OutputDir)
}
