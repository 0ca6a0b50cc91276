package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"audio-digest/internal/app/model"
)

// WriteFakeAudio creates a file with the given name and size under dir and
// returns its absolute path. The content is not valid audio; pair it with a
// MockExecutor or MockTranscriber.
func WriteFakeAudio(t *testing.T, dir, name string, size int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

// SampleProcessedFiles returns a small, deterministic ledger history.
func SampleProcessedFiles() []model.ProcessedFile {
	return []model.ProcessedFile{
		{
			ID:           1,
			RunID:        "run-a",
			FileName:     "standup_monday.mp3",
			FilePath:     "/audio/standup_monday.mp3",
			FileSize:     2_480_113,
			DurationSec:  912.4,
			Method:       "api",
			Language:     "en",
			SummaryModel: "gpt-4o",
			OutputFile:   "output/20250113_standup_monday.md",
			ElapsedSec:   41.2,
			ProcessedAt:  time.Date(2025, 1, 13, 10, 5, 0, 0, time.UTC),
		},
		{
			ID:           2,
			RunID:        "run-b",
			FileName:     "kundengespraech.m4a",
			FilePath:     "/audio/kundengespraech.m4a",
			FileSize:     31_204_552,
			DurationSec:  2710.0,
			Method:       "local",
			Language:     "de",
			SummaryModel: "gpt-4o",
			OutputFile:   "output/20250114_kundengespraech.md",
			ElapsedSec:   388.9,
			ProcessedAt:  time.Date(2025, 1, 14, 16, 40, 0, 0, time.UTC),
		},
	}
}
