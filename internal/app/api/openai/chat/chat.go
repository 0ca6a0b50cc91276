package chat

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"

	"audio-digest/internal/app/api"
	"audio-digest/internal/app/errors"
	"audio-digest/pkg/logger"
)

// chatAPI is the slice of the OpenAI client the summarizer uses.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Summarizer turns transcripts into structured Markdown summaries through the
// chat completion API.
type Summarizer struct {
	client chatAPI
	log    *logger.Logger
}

func NewSummarizer(client *openai.Client, log *logger.Logger) *Summarizer {
	return &Summarizer{client: client, log: log.Named("chat")}
}

func (s *Summarizer) Summarize(ctx context.Context, req api.SummaryRequest) (string, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return "", errors.ErrEmptyTranscript
	}

	request := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemMessage(req.Language),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt + "\n\nTranscript:\n" + req.Transcript,
			},
		},
	}

	resp, err := api.WithRetry(ctx, s.log, "chat completion", func() (openai.ChatCompletionResponse, error) {
		return s.client.CreateChatCompletion(ctx, request)
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// systemMessage pins the answer language so summaries match the transcript
// language instead of drifting to English.
func systemMessage(language string) string {
	if language == "de" {
		return "Du bist ein Assistent, der Transkripte in strukturierte Zusammenfassungen verwandelt. Antworte auf Deutsch."
	}
	return "You are an assistant that turns transcripts into structured summaries. Respond in English."
}
