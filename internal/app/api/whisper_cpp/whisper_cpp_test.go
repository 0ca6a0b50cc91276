package whisper_cpp

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/testutil"
	"audio-digest/pkg/logger"
)

const (
	testBinary = "/opt/whisper/main"
	testModel  = "/opt/whisper/ggml-base.bin"

	probe16kMonoWav = `{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000","channels":1}]}`
	probeMp3        = `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100","channels":2}]}`
)

func newTestTranscriber(exec *testutil.MockExecutor) *LocalTranscriber {
	return &LocalTranscriber{
		exec:       exec,
		audio:      audio.NewProcessor(exec, logger.Nop()),
		log:        logger.Nop(),
		binaryPath: testBinary,
		modelPath:  testModel,
		language:   "en",
	}
}

// inferenceHandler mimics the whisper.cpp binary: it writes transcript text
// to the file named by -of. ffprobe answers with probeJSON.
func inferenceHandler(probeJSON, transcript string) func(name string, args ...string) (string, error) {
	return func(name string, args ...string) (string, error) {
		switch name {
		case "ffprobe":
			return probeJSON, nil
		case testBinary:
			if err := os.WriteFile(argValue(args, "-of")+".txt", []byte(transcript), 0o644); err != nil {
				return "", err
			}
		}
		return "", nil
	}
}

func TestTranscriptAlready16kHzWav(t *testing.T) {
	exec := testutil.NewMockExecutor().
		WithHandler(inferenceHandler(probe16kMonoWav, " hello from the local model \n"))
	lt := newTestTranscriber(exec)

	src := testutil.WriteFakeAudio(t, t.TempDir(), "talk.wav", 64)
	text, err := lt.Transcript(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "hello from the local model", text)

	calls := exec.CommandsFor(testBinary)
	require.Len(t, calls, 1)
	args := calls[0].Args
	assert.Equal(t, testModel, argValue(args, "-m"))
	assert.Equal(t, "en", argValue(args, "-l"))
	assert.Equal(t, src, argValue(args, "-f"))
	assert.Contains(t, args, "-otxt")

	// already in the right format, no conversion pass
	assert.Empty(t, exec.CommandsFor("ffmpeg"))
}

func TestTranscriptConvertsCompressedInput(t *testing.T) {
	exec := testutil.NewMockExecutor().
		WithHandler(inferenceHandler(probeMp3, "converted and transcribed"))
	lt := newTestTranscriber(exec)

	dir := t.TempDir()
	src := testutil.WriteFakeAudio(t, dir, "episode.mp3", 64)
	text, err := lt.Transcript(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "converted and transcribed", text)

	wantWav := src[:len(src)-len(".mp3")] + "_16khz.wav"
	ffmpegCalls := exec.CommandsFor("ffmpeg")
	require.Len(t, ffmpegCalls, 1)
	assert.Contains(t, ffmpegCalls[0].Args, wantWav)

	assert.Equal(t, wantWav, argValue(exec.CommandsFor(testBinary)[0].Args, "-f"))
}

func TestTranscriptEmptyOutput(t *testing.T) {
	exec := testutil.NewMockExecutor().
		WithHandler(inferenceHandler(probe16kMonoWav, "  \n"))
	lt := newTestTranscriber(exec)

	src := testutil.WriteFakeAudio(t, t.TempDir(), "silence.wav", 64)
	_, err := lt.Transcript(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEmptyTranscript)
}

func TestTranscriptBinaryFailure(t *testing.T) {
	exec := testutil.NewMockExecutor().WithHandler(func(name string, args ...string) (string, error) {
		if name == testBinary {
			return "", assert.AnError
		}
		return probe16kMonoWav, nil
	})
	lt := newTestTranscriber(exec)

	src := testutil.WriteFakeAudio(t, t.TempDir(), "talk.wav", 64)
	_, err := lt.Transcript(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whisper.cpp execution failed")
}

func TestTranscriptMissingOutputFile(t *testing.T) {
	// binary "succeeds" but never writes its output file
	exec := testutil.NewMockExecutor().WithOutput("ffprobe", probe16kMonoWav)
	lt := newTestTranscriber(exec)

	src := testutil.WriteFakeAudio(t, t.TempDir(), "talk.wav", 64)
	_, err := lt.Transcript(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read whisper.cpp output")
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
