package api

import "context"

// SummaryRequest carries everything a summarization backend needs for one
// transcript.
type SummaryRequest struct {
	Transcript string
	Prompt     string
	Model      string
	Language   string
}

// Summarizer produces a structured Markdown summary of a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}
