package whisper

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/testutil"
	"audio-digest/pkg/logger"
)

type fakeTranscriptionAPI struct {
	mu    sync.Mutex
	calls []openai.AudioRequest
	fn    func(req openai.AudioRequest) (openai.AudioResponse, error)
}

func (f *fakeTranscriptionAPI) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	fn := f.fn
	f.mu.Unlock()

	if fn != nil {
		return fn(req)
	}
	return openai.AudioResponse{Text: "transcribed text"}, nil
}

func newTestTranscriber(client transcriptionAPI, exec *testutil.MockExecutor, limitBytes int64) *RemoteTranscriber {
	return &RemoteTranscriber{
		client:      client,
		audio:       audio.NewProcessor(exec, logger.Nop()),
		log:         logger.Nop(),
		model:       "whisper-1",
		language:    "en",
		limitBytes:  limitBytes,
		marginBytes: 0,
		workers:     2,
	}
}

func TestTranscriptSmallFileSingleUpload(t *testing.T) {
	src := testutil.WriteFakeAudio(t, t.TempDir(), "talk.mp3", 100)

	fake := &fakeTranscriptionAPI{
		fn: func(req openai.AudioRequest) (openai.AudioResponse, error) {
			return openai.AudioResponse{Text: "  hello world \n"}, nil
		},
	}
	exec := testutil.NewMockExecutor()
	rt := newTestTranscriber(fake, exec, 1000)

	text, err := rt.Transcript(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, "whisper-1", fake.calls[0].Model)
	assert.Equal(t, "en", fake.calls[0].Language)
	assert.Equal(t, src, fake.calls[0].FilePath)

	// no splitting for a file under the ceiling
	assert.Zero(t, exec.CallCount())
}

func TestTranscriptMissingFile(t *testing.T) {
	rt := newTestTranscriber(&fakeTranscriptionAPI{}, testutil.NewMockExecutor(), 1000)

	_, err := rt.Transcript(context.Background(), filepath.Join(t.TempDir(), "gone.mp3"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestTranscriptChunkedReassemblesInOrder(t *testing.T) {
	// 1000 bytes against a 300 byte ceiling plans four chunks.
	src := testutil.WriteFakeAudio(t, t.TempDir(), "long.mp3", 1000)

	fake := &fakeTranscriptionAPI{
		fn: func(req openai.AudioRequest) (openai.AudioResponse, error) {
			return openai.AudioResponse{Text: "part" + chunkIndex(req.FilePath)}, nil
		},
	}
	exec := testutil.NewMockExecutor().WithOutput("ffprobe", "100.0\n")
	rt := newTestTranscriber(fake, exec, 300)

	text, err := rt.Transcript(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "part0 part1 part2 part3", text)

	assert.Len(t, fake.calls, 4)
	assert.Len(t, exec.CommandsFor("ffprobe"), 1)
	assert.Len(t, exec.CommandsFor("ffmpeg"), 4)
}

func TestTranscriptChunkFailureAbortsFile(t *testing.T) {
	src := testutil.WriteFakeAudio(t, t.TempDir(), "long.mp3", 1000)

	fake := &fakeTranscriptionAPI{
		fn: func(req openai.AudioRequest) (openai.AudioResponse, error) {
			if chunkIndex(req.FilePath) == "2" {
				return openai.AudioResponse{}, &openai.APIError{HTTPStatusCode: 400, Message: "corrupt segment"}
			}
			return openai.AudioResponse{Text: "ok"}, nil
		},
	}
	exec := testutil.NewMockExecutor().WithOutput("ffprobe", "100.0\n")
	rt := newTestTranscriber(fake, exec, 300)

	_, err := rt.Transcript(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 2")
}

func TestTranscriptChunkedDurationProbeFails(t *testing.T) {
	src := testutil.WriteFakeAudio(t, t.TempDir(), "long.mp3", 1000)

	exec := testutil.NewMockExecutor().WithError("ffprobe", assert.AnError)
	rt := newTestTranscriber(&fakeTranscriptionAPI{}, exec, 300)

	_, err := rt.Transcript(context.Background(), src)
	require.Error(t, err)
}

// chunkIndex pulls the numeric index out of a chunk_NNN.mp3 file name. It
// runs inside worker goroutines, so parse trouble is surfaced through the
// assembled text instead of t.FailNow.
func chunkIndex(path string) string {
	base := filepath.Base(path)
	raw := strings.TrimSuffix(strings.TrimPrefix(base, "chunk_"), ".mp3")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return base
	}
	return strconv.Itoa(n)
}
