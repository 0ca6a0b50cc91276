package gemini

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"audio-digest/internal/app/api"
	"audio-digest/internal/app/errors"
	"audio-digest/pkg/logger"
)

// Summarizer produces structured Markdown summaries through the Gemini API.
type Summarizer struct {
	apiKey string
	log    *logger.Logger
}

func NewSummarizer(apiKey string, log *logger.Logger) *Summarizer {
	return &Summarizer{apiKey: apiKey, log: log.Named("gemini")}
}

func (s *Summarizer) Summarize(ctx context.Context, req api.SummaryRequest) (string, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return "", errors.ErrEmptyTranscript
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to create Gemini client")
	}

	prompt := buildPrompt(req)
	result, err := api.WithRetry(ctx, s.log, "content generation", func() (*genai.GenerateContentResponse, error) {
		return client.Models.GenerateContent(ctx, req.Model, genai.Text(prompt), nil)
	})
	if err != nil {
		return "", err
	}

	text := collectText(result)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("Gemini returned an empty response")
	}
	return text, nil
}

// buildPrompt folds the language instruction, the summary prompt and the
// transcript into the single user turn Gemini expects.
func buildPrompt(req api.SummaryRequest) string {
	instruction := "Respond in English."
	if req.Language == "de" {
		instruction = "Antworte auf Deutsch."
	}
	return instruction + "\n\n" + req.Prompt + "\n\nTranscript:\n" + req.Transcript
}

func collectText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String()
}
