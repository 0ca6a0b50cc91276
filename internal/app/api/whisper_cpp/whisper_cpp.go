package whisper_cpp

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/util/files"
	"audio-digest/internal/config"
	"audio-digest/pkg/executor"
	"audio-digest/pkg/logger"
)

// LocalTranscriber runs a whisper.cpp binary on the local machine. The engine
// only accepts 16 kHz mono PCM WAV, so other inputs are converted first.
type LocalTranscriber struct {
	exec  executor.Executor
	audio *audio.Processor
	log   *logger.Logger

	binaryPath string
	modelPath  string
	language   string
}

// NewLocalTranscriber creates a LocalTranscriber from configuration.
func NewLocalTranscriber(exec executor.Executor, processor *audio.Processor, log *logger.Logger, cfg *config.Config) *LocalTranscriber {
	return &LocalTranscriber{
		exec:       exec,
		audio:      processor,
		log:        log.Named("whisper-cpp"),
		binaryPath: cfg.WhisperLocal.BinaryPath,
		modelPath:  cfg.WhisperLocal.ModelPath,
		language:   cfg.General.Language,
	}
}

// Transcript converts the input if needed, runs the inference binary and
// returns the text it wrote.
func (lt *LocalTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	wavPath, err := lt.ensure16kHzWav(ctx, inputFilePath)
	if err != nil {
		return "", err
	}

	outputDir, err := os.MkdirTemp("", "a2s_whisper_cpp_")
	if err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}
	defer os.RemoveAll(outputDir)
	outputBase := filepath.Join(outputDir, "transcript")

	lt.log.Info("running local inference",
		logger.String("file", filepath.Base(inputFilePath)),
		logger.String("model", filepath.Base(lt.modelPath)))

	_, err = lt.exec.Execute(ctx, lt.binaryPath,
		"-m", lt.modelPath,
		"-l", lt.language,
		"-otxt",
		"-f", wavPath,
		"-of", outputBase)
	if err != nil {
		return "", errors.Wrap(err, "whisper.cpp execution failed")
	}

	text, err := files.ReadText(outputBase + ".txt")
	if err != nil {
		return "", errors.Wrap(err, "failed to read whisper.cpp output")
	}
	if text == "" {
		return "", errors.ErrEmptyTranscript
	}
	return text, nil
}

// ensure16kHzWav returns a path to a 16 kHz mono WAV rendition of the input.
// The converted file lands next to the source so repeated runs reuse it.
func (lt *LocalTranscriber) ensure16kHzWav(ctx context.Context, inputFilePath string) (string, error) {
	is16k, err := lt.audio.Is16kHzMonoWav(ctx, inputFilePath)
	if err != nil {
		return "", errors.Wrap(err, "failed to inspect input file")
	}
	if is16k {
		return inputFilePath, nil
	}

	ext := filepath.Ext(inputFilePath)
	wavPath := strings.TrimSuffix(inputFilePath, ext) + "_16khz.wav"
	if err := lt.audio.ConvertTo16kHzWav(ctx, inputFilePath, wavPath); err != nil {
		return "", err
	}
	return wavPath, nil
}
