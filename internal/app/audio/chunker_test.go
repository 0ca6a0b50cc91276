package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLimit  = int64(25 * 1024 * 1024)
	testMargin = int64(512 * 1024)
)

func TestPlanChunks_UnderLimitSingleChunk(t *testing.T) {
	total := 10 * time.Minute

	chunks, err := PlanChunks(testLimit-testMargin, testLimit, testMargin, total)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, time.Duration(0), chunks[0].Start)
	assert.Equal(t, total, chunks[0].Length)
}

func TestPlanChunks_CountIsCeiling(t *testing.T) {
	effective := testLimit - testMargin

	tests := []struct {
		name      string
		sizeBytes int64
		want      int
	}{
		{name: "one byte over", sizeBytes: effective + 1, want: 2},
		{name: "exact multiple", sizeBytes: 3 * effective, want: 3},
		{name: "multiple plus one", sizeBytes: 3*effective + 1, want: 4},
		{name: "large file", sizeBytes: 10*effective - 5, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := PlanChunks(tt.sizeBytes, testLimit, testMargin, time.Hour)
			require.NoError(t, err)
			assert.Len(t, chunks, tt.want)

			// projected per-chunk byte share stays under the effective limit
			perChunk := tt.sizeBytes / int64(len(chunks))
			assert.LessOrEqual(t, perChunk, effective)
		})
	}
}

func TestPlanChunks_ContiguousAndComplete(t *testing.T) {
	total := 47*time.Minute + 13*time.Second + 421*time.Millisecond

	chunks, err := PlanChunks(4*(testLimit-testMargin)+99, testLimit, testMargin, total)
	require.NoError(t, err)
	require.Len(t, chunks, 5)

	var covered time.Duration
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, covered, c.Start, "chunk %d must start where the previous ended", i)
		assert.Positive(t, c.Length)
		covered += c.Length
	}
	// no gap at the end either: the last chunk runs to the full duration
	assert.Equal(t, total, covered)
}

func TestPlanChunks_Errors(t *testing.T) {
	tests := []struct {
		name   string
		size   int64
		limit  int64
		margin int64
		total  time.Duration
	}{
		{name: "empty file", size: 0, limit: testLimit, margin: testMargin, total: time.Minute},
		{name: "unknown duration", size: 100, limit: testLimit, margin: testMargin, total: 0},
		{name: "margin at limit", size: 100, limit: testLimit, margin: testLimit, total: time.Minute},
		{name: "margin over limit", size: 100, limit: testLimit, margin: testLimit + 1, total: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanChunks(tt.size, tt.limit, tt.margin, tt.total)
			assert.Error(t, err)
		})
	}
}

func TestNeedsChunking(t *testing.T) {
	effective := testLimit - testMargin

	assert.False(t, NeedsChunking(effective, testLimit, testMargin))
	assert.True(t, NeedsChunking(effective+1, testLimit, testMargin))
}

func TestIsAudioFile(t *testing.T) {
	for _, name := range []string{"a.mp3", "B.WAV", "c.m4a", "d.aac", "e.flac", "f.ogg", "g.wma"} {
		assert.True(t, IsAudioFile(name), name)
	}
	for _, name := range []string{"a.mp4", "b.txt", "c", "d.pdf"} {
		assert.False(t, IsAudioFile(name), name)
	}
}
