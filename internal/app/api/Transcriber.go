package api

import "context"

// Transcriber defines a transcription interface for converting audio files to text.
// Implementations handle their own transport concerns (chunking, retries,
// temp files); callers see the full transcript in original temporal order.
type Transcriber interface {
	Transcript(ctx context.Context, inputFilePath string) (string, error)
}
