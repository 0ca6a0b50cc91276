package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"audio-digest/internal/app/api"
	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/model"
	"audio-digest/internal/app/render"
	"audio-digest/internal/app/repository"
	"audio-digest/internal/app/summary"
	"audio-digest/internal/config"
	"audio-digest/pkg/logger"
)

// ValidFormats are the artifact kinds ProcessFile can write.
var ValidFormats = []string{"md", "txt", "pdf"}

// NormalizeFormats lowercases, dedupes and validates a format selection.
// Empty means the default pair of Markdown and PDF.
func NormalizeFormats(formats []string) ([]string, error) {
	if len(formats) == 0 {
		return []string{"md", "pdf"}, nil
	}
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" || seen[format] {
			continue
		}
		if !lo.Contains(ValidFormats, format) {
			return nil, errors.Newf("unknown output format %q (valid: %s)", format, strings.Join(ValidFormats, ", "))
		}
		seen[format] = true
		out = append(out, format)
	}
	if len(out) == 0 {
		return nil, errors.New("no output formats selected")
	}
	return out, nil
}

// Options carries per-invocation output choices.
type Options struct {
	// Formats selects which artifacts to write; empty means the default.
	Formats []string
	// BaseName overrides the date-stamped output stem. Single-file runs only.
	BaseName string
}

// Result describes one successfully processed file.
type Result struct {
	File        string
	OutputFiles []string
	DurationSec float64
	ElapsedSec  float64
}

// Pipeline drives one file through transcription, summarization and
// rendering, and records the outcome in the ledger.
type Pipeline struct {
	transcriber api.Transcriber
	summarizer  api.Summarizer
	ledger      repository.LedgerDAO
	audio       *audio.Processor
	cfg         *config.Config
	log         *logger.Logger

	runID string
	now   func() time.Time
}

func New(transcriber api.Transcriber, summarizer api.Summarizer, ledger repository.LedgerDAO,
	processor *audio.Processor, cfg *config.Config, log *logger.Logger) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		summarizer:  summarizer,
		ledger:      ledger,
		audio:       processor,
		cfg:         cfg,
		log:         log.Named("pipeline"),
		runID:       uuid.NewString(),
		now:         time.Now,
	}
}

func (p *Pipeline) Close() error {
	return p.ledger.Close()
}

// ProcessFile runs the whole chain for one audio file. Any failure aborts the
// file before the ledger is touched, so the next run picks it up again.
func (p *Pipeline) ProcessFile(ctx context.Context, inputPath string, opts Options) (Result, error) {
	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		return Result{}, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrFileNotFound, absPath)
	}

	formats, err := NormalizeFormats(opts.Formats)
	if err != nil {
		return Result{}, err
	}
	prompt, err := summary.LoadPrompt(p.cfg.Summary.PromptFile)
	if err != nil {
		return Result{}, err
	}

	duration, err := p.audio.Duration(ctx, absPath)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to determine audio duration")
	}

	fileName := filepath.Base(absPath)
	p.log.Info("transcribing",
		logger.String("file", fileName),
		logger.String("method", p.cfg.General.Method),
		logger.Duration("audio", duration))

	start := time.Now()
	transcript, err := p.transcriber.Transcript(ctx, absPath)
	if err != nil {
		return Result{}, errors.Wrapf(err, "transcription of %s failed", fileName)
	}
	if strings.TrimSpace(transcript) == "" {
		return Result{}, errors.ErrEmptyTranscript
	}

	p.log.Info("summarizing",
		logger.String("file", fileName),
		logger.String("model", p.summaryModel()))
	raw, err := p.summarizer.Summarize(ctx, api.SummaryRequest{
		Transcript: transcript,
		Prompt:     prompt,
		Model:      p.summaryModel(),
		Language:   p.cfg.General.Language,
	})
	if err != nil {
		return Result{}, errors.Wrapf(err, "summarization of %s failed", fileName)
	}

	body := summary.Clean(raw)
	if missing := summary.MissingSections(body); len(missing) > 0 {
		p.log.Warn("summary is missing sections",
			logger.String("file", fileName),
			logger.Strings("sections", missing))
	}

	baseName := opts.BaseName
	if baseName == "" {
		baseName = render.OutputBaseName(absPath, p.now())
	}
	markdown := render.BuildMarkdown(p.cfg.General.Language, body)
	written, err := p.writeArtifacts(baseName, formats, markdown, transcript)
	if err != nil {
		p.removeArtifacts(written)
		return Result{}, err
	}

	record := model.ProcessedFile{
		RunID:        p.runID,
		FileName:     fileName,
		FilePath:     absPath,
		FileSize:     info.Size(),
		DurationSec:  duration.Seconds(),
		Method:       p.cfg.General.Method,
		Language:     p.cfg.General.Language,
		SummaryModel: p.summaryModel(),
		OutputFile:   primaryArtifact(written),
		ElapsedSec:   time.Since(start).Seconds(),
		ProcessedAt:  time.Now(),
	}
	if err := p.ledger.RecordProcessed(record); err != nil {
		return Result{}, errors.Wrap(err, "failed to record processed file")
	}

	p.log.Info("finished",
		logger.String("file", fileName),
		logger.String("output", record.OutputFile),
		logger.Float64("elapsed_sec", record.ElapsedSec))

	return Result{
		File:        absPath,
		OutputFiles: written,
		DurationSec: record.DurationSec,
		ElapsedSec:  record.ElapsedSec,
	}, nil
}

func (p *Pipeline) writeArtifacts(baseName string, formats []string, markdown, transcript string) ([]string, error) {
	var written []string
	for _, format := range formats {
		path := filepath.Join(p.cfg.Paths.OutputDir, baseName+"."+format)
		var err error
		switch format {
		case "md":
			err = render.WriteMarkdown(path, markdown)
		case "txt":
			err = render.WriteTranscript(path, transcript)
		case "pdf":
			err = render.WritePDF(path, markdown)
		}
		if err != nil {
			return written, errors.Wrapf(err, "failed to write %s artifact", format)
		}
		written = append(written, path)
	}
	return written, nil
}

// removeArtifacts is best effort: a failed file must not leave half a result
// set behind.
func (p *Pipeline) removeArtifacts(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.log.Warn("could not remove partial output",
				logger.String("path", path),
				logger.Error(err))
		}
	}
}

// primaryArtifact picks the ledger's output reference, preferring Markdown.
func primaryArtifact(written []string) string {
	for _, path := range written {
		if strings.HasSuffix(path, ".md") {
			return path
		}
	}
	if len(written) > 0 {
		return written[0]
	}
	return ""
}

func (p *Pipeline) summaryModel() string {
	if p.cfg.Summary.Provider == "gemini" {
		return p.cfg.Gemini.SummaryModel
	}
	return p.cfg.OpenAI.SummaryModel
}
