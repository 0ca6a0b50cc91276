package openai

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"audio-digest/internal/app/errors"
	"audio-digest/internal/config"
)

// NewClient builds an OpenAI API client from configuration. A custom base URL
// routes requests to any OpenAI-compatible endpoint (Azure, local gateways).
func NewClient(cfg *config.Config) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAI.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

// Preflight verifies that the endpoint is reachable and the credentials are
// accepted before a batch starts burning through its files.
func Preflight(ctx context.Context, client *openai.Client) error {
	if _, err := client.ListModels(ctx); err != nil {
		return errors.Wrap(err, "OpenAI API preflight failed")
	}
	return nil
}
