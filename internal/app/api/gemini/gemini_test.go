package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"audio-digest/internal/app/api"
	"audio-digest/internal/app/errors"
	"audio-digest/pkg/logger"
)

var _ api.Summarizer = (*Summarizer)(nil)

func TestSummarizeEmptyTranscript(t *testing.T) {
	s := NewSummarizer("test-key", logger.Nop())

	_, err := s.Summarize(context.Background(), api.SummaryRequest{Transcript: " \n\t"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEmptyTranscript)
}

func TestBuildPrompt(t *testing.T) {
	english := buildPrompt(api.SummaryRequest{
		Transcript: "the transcript",
		Prompt:     "the instructions",
		Language:   "en",
	})
	assert.Contains(t, english, "Respond in English.")
	assert.Contains(t, english, "the instructions")
	assert.Contains(t, english, "the transcript")

	german := buildPrompt(api.SummaryRequest{
		Transcript: "das Transkript",
		Prompt:     "die Anweisungen",
		Language:   "de",
	})
	assert.Contains(t, german, "Antworte auf Deutsch.")
}

func TestCollectText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "first "},
						{Text: "second"},
					},
				},
			},
		},
	}
	assert.Equal(t, "first second", collectText(resp))

	assert.Empty(t, collectText(nil))
	assert.Empty(t, collectText(&genai.GenerateContentResponse{}))
	assert.Empty(t, collectText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{}},
	}))
}
