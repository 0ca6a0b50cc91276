package pipeline

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"sync"

	"github.com/samber/lo"

	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/model"
	"audio-digest/pkg/logger"
)

// FileError pairs a failed input with its error.
type FileError struct {
	File string
	Err  error
}

// BatchResult is the outcome of one directory run.
type BatchResult struct {
	Processed []Result
	Skipped   int
	Failures  []FileError
}

func (b BatchResult) Failed() bool {
	return len(b.Failures) > 0
}

func (b BatchResult) FailedFiles() []string {
	return lo.Map(b.Failures, func(f FileError, _ int) string {
		return f.File
	})
}

// ProcessDirectory runs every unprocessed audio file under dir through the
// pipeline, at most parallel files at a time. One file failing does not stop
// the others; failures are collected into the result.
func (p *Pipeline) ProcessDirectory(ctx context.Context, dir string, parallel int, opts Options) (BatchResult, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return BatchResult{}, err
	}
	found, err := audio.ScanDir(absDir)
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	pending := make([]model.FileInfo, 0, len(found))
	for _, f := range found {
		recordID, err := p.ledger.CheckIfFileProcessed(f.FullPath, f.Size)
		switch {
		case err == nil:
			p.log.Info("skipping already processed file",
				logger.String("file", f.Name),
				logger.Int("record_id", recordID))
			result.Skipped++
		case stderrors.Is(err, sql.ErrNoRows):
			pending = append(pending, f)
		default:
			return BatchResult{}, errors.Wrap(err, "ledger lookup failed")
		}
	}

	p.log.Info("starting batch",
		logger.String("dir", absDir),
		logger.Int("pending", len(pending)),
		logger.Int("skipped", result.Skipped),
		logger.Int("parallel", parallel))
	if len(pending) == 0 {
		return result, nil
	}
	if parallel < 1 {
		parallel = 1
	}

	pm := NewProgressManager(ProgressConfig{Enabled: ShouldShowProgress(false)})
	bar := pm.CreateBar(len(pending), "processing")

	// Date-stamped names only in batch mode; a custom stem would make every
	// file overwrite the previous one.
	opts.BaseName = ""

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, parallel)
	)
	for _, f := range pending {
		wg.Add(1)
		sem <- struct{}{}
		go func(f model.FileInfo) {
			defer wg.Done()
			defer func() { <-sem }()
			defer bar.Increment()

			res, err := p.ProcessFile(ctx, f.FullPath, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.log.Error("file failed",
					logger.String("file", f.Name),
					logger.Error(err))
				result.Failures = append(result.Failures, FileError{File: f.FullPath, Err: err})
				return
			}
			result.Processed = append(result.Processed, res)
		}(f)
	}
	wg.Wait()
	bar.Complete()
	pm.Wait()

	return result, nil
}
