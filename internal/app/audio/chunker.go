package audio

import (
	"time"

	"audio-digest/internal/app/errors"
)

// Chunk is one planned sub-clip of an oversized input. Chunks partition the
// source exactly: chunk i+1 starts where chunk i ends and the last one runs
// to the end of the stream.
type Chunk struct {
	Index  int
	Start  time.Duration
	Length time.Duration
}

// PlanChunks splits a file of sizeBytes into equal-duration chunks whose
// projected size stays under limitBytes minus marginBytes (container
// overhead headroom). A file already under the effective limit yields a
// single chunk covering the whole duration.
//
// The chunk count is ceil(size/effective), so each chunk's byte share
// size/n is at most the effective limit.
func PlanChunks(sizeBytes, limitBytes, marginBytes int64, total time.Duration) ([]Chunk, error) {
	if sizeBytes <= 0 {
		return nil, errors.Newf("cannot plan chunks: file size %d", sizeBytes)
	}
	if total <= 0 {
		return nil, errors.New("cannot plan chunks: audio duration unknown")
	}
	effective := limitBytes - marginBytes
	if effective <= 0 {
		return nil, errors.Newf("cannot plan chunks: margin %d leaves no room under limit %d", marginBytes, limitBytes)
	}

	if sizeBytes <= effective {
		return []Chunk{{Index: 0, Start: 0, Length: total}}, nil
	}

	n := int((sizeBytes + effective - 1) / effective)
	per := total / time.Duration(n)

	chunks := make([]Chunk, n)
	var start time.Duration
	for i := 0; i < n; i++ {
		length := per
		if i == n-1 {
			length = total - start
		}
		chunks[i] = Chunk{Index: i, Start: start, Length: length}
		start += length
	}
	return chunks, nil
}

// NeedsChunking reports whether a file of sizeBytes exceeds the effective
// upload limit.
func NeedsChunking(sizeBytes, limitBytes, marginBytes int64) bool {
	return sizeBytes > limitBytes-marginBytes
}
