package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"audio-digest/internal/app/errors"
)

// LoadEnv loads environment variables from a .env file if one exists. Keys
// already present in the environment win, matching godotenv semantics.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
	}

	// Look for a .env file, but don't fail if not found (environment
	// variables might be set system-wide)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// resolveAPIKeys fills empty or placeholder key fields from the environment
// and records format warnings. Missing keys are not fatal here: which key is
// actually required depends on the method and summary provider chosen.
func (c *Config) resolveAPIKeys() {
	if c.OpenAI.APIKey == "" || c.OpenAI.APIKey == apiKeyPlaceholder {
		c.OpenAI.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if c.Gemini.APIKey == "" || c.Gemini.APIKey == apiKeyPlaceholder {
		c.Gemini.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}

	// Shape checks are advisory: compatible endpoints behind base_url issue
	// their own key formats.
	if c.OpenAI.APIKey != "" && c.OpenAI.BaseURL == "" && !strings.HasPrefix(c.OpenAI.APIKey, "sk-") {
		c.Warnings = append(c.Warnings, "OPENAI_API_KEY does not start with 'sk-'; requests may be rejected")
	}
	if c.Gemini.APIKey != "" && !strings.HasPrefix(c.Gemini.APIKey, "AIza") {
		c.Warnings = append(c.Warnings, "GEMINI_API_KEY does not start with 'AIza'; requests may be rejected")
	}
}

// RequireOpenAIKey returns an error when no usable OpenAI key is configured.
func (c *Config) RequireOpenAIKey() error {
	if c.OpenAI.APIKey == "" {
		return errors.Wrap(errors.ErrMissingAPIKey,
			"set openai.api_key in a2s.yaml or the OPENAI_API_KEY environment variable")
	}
	return nil
}

// RequireGeminiKey returns an error when no usable Gemini key is configured.
func (c *Config) RequireGeminiKey() error {
	if c.Gemini.APIKey == "" {
		return errors.Wrap(errors.ErrMissingAPIKey,
			"set gemini.api_key in a2s.yaml or the GEMINI_API_KEY environment variable")
	}
	return nil
}
