package whisper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"audio-digest/internal/app/api"
	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/config"
	"audio-digest/pkg/logger"
)

// transcriptionAPI is the slice of the OpenAI client the transcriber uses.
type transcriptionAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// RemoteTranscriber sends audio to an OpenAI-compatible transcription
// endpoint. Files above the upload ceiling are split into contiguous chunks,
// transcribed in parallel and reassembled in time order.
type RemoteTranscriber struct {
	client transcriptionAPI
	audio  *audio.Processor
	log    *logger.Logger

	model       string
	language    string
	limitBytes  int64
	marginBytes int64
	workers     int
}

// NewRemoteTranscriber creates a RemoteTranscriber from configuration.
func NewRemoteTranscriber(client *openai.Client, processor *audio.Processor, log *logger.Logger, cfg *config.Config) *RemoteTranscriber {
	return &RemoteTranscriber{
		client:      client,
		audio:       processor,
		log:         log.Named("whisper-api"),
		model:       cfg.WhisperAPI.Model,
		language:    cfg.General.Language,
		limitBytes:  cfg.WhisperAPI.MaxUploadBytes,
		marginBytes: cfg.WhisperAPI.ChunkMarginBytes,
		workers:     cfg.WhisperAPI.ChunkWorkers,
	}
}

// Transcript returns the transcription of the audio file. Oversized inputs
// are chunked transparently; the caller always sees a single text.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	info, err := os.Stat(inputFilePath)
	if err != nil {
		return "", errors.Wrap(errors.ErrFileNotFound, inputFilePath)
	}

	if !audio.NeedsChunking(info.Size(), rt.limitBytes, rt.marginBytes) {
		return rt.transcribeOne(ctx, inputFilePath)
	}
	return rt.transcribeChunked(ctx, inputFilePath, info.Size())
}

// transcribeOne uploads a single file that fits under the size ceiling.
func (rt *RemoteTranscriber) transcribeOne(ctx context.Context, path string) (string, error) {
	resp, err := api.WithRetry(ctx, rt.log, "transcription request", func() (openai.AudioResponse, error) {
		return rt.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    rt.model,
			FilePath: path,
			Language: rt.language,
		})
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

func (rt *RemoteTranscriber) transcribeChunked(ctx context.Context, path string, size int64) (string, error) {
	total, err := rt.audio.Duration(ctx, path)
	if err != nil {
		return "", err
	}
	chunks, err := audio.PlanChunks(size, rt.limitBytes, rt.marginBytes, total)
	if err != nil {
		return "", err
	}

	rt.log.Info("file exceeds upload ceiling, splitting",
		logger.String("file", filepath.Base(path)),
		logger.Int64("size_bytes", size),
		logger.Int("chunks", len(chunks)))

	tempDir, err := os.MkdirTemp("", "a2s_chunks_")
	if err != nil {
		return "", errors.Wrap(err, "failed to create chunk directory")
	}
	defer os.RemoveAll(tempDir)

	// Each chunk writes its text into its own slot so parallel completion
	// order cannot reorder the transcript.
	texts := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.workers)
	for _, c := range chunks {
		g.Go(func() error {
			chunkPath, err := rt.audio.Extract(gctx, path, c, tempDir)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", c.Index, err)
			}
			text, err := rt.transcribeOne(gctx, chunkPath)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", c.Index, err)
			}
			texts[c.Index] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(texts, " "), nil
}
