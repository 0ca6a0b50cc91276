package batch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"audio-digest/cmd/a2s/cmd/cliutil"
	"audio-digest/internal/app"
	openaiclient "audio-digest/internal/app/api/openai"
	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/pipeline"
)

var (
	audioDir  string
	parallel  int
	formats   []string
	overrides cliutil.Overrides
)

func init() {
	Cmd.Flags().StringVarP(&audioDir, "dir", "d", "", "directory with audio files (default: paths.audio_dir)")
	Cmd.Flags().IntVar(&parallel, "parallel", 2, "number of files processed concurrently")
	Cmd.Flags().StringSliceVar(&formats, "formats", nil, "output formats: md,txt,pdf (default: md,pdf)")
	Cmd.Flags().StringVar(&overrides.Method, "method", "", "transcription method: api or local")
	Cmd.Flags().StringVar(&overrides.Language, "language", "", "spoken language: en or de")
	Cmd.Flags().StringVar(&overrides.OutputDir, "output-dir", "", "directory for the generated files")
}

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Process every unprocessed audio file in a directory",
	Long: `Process every unprocessed audio file in a directory

- Files already in the ledger (same path and size) are skipped
- Remaining files run through transcription and summarization in parallel
- One failed file does not stop the others; failures are reported at the end`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliutil.LoadConfig()
		if err != nil {
			return err
		}
		if err := overrides.Apply(cfg); err != nil {
			return err
		}

		a, err := app.InitializeApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if !audio.FFmpegAvailable() {
			a.Log.Warn("ffmpeg or ffprobe not found on PATH; probing and chunk extraction will fail")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Fail on bad credentials before the batch burns time on chunking
		// and uploads.
		if cfg.General.Method == "api" {
			if err := openaiclient.Preflight(ctx, openaiclient.NewClient(cfg)); err != nil {
				return err
			}
		}

		dir := audioDir
		if dir == "" {
			dir = cfg.Paths.AudioDir
		}

		result, err := a.Pipeline.ProcessDirectory(ctx, dir, parallel, pipeline.Options{Formats: formats})
		if err != nil {
			return err
		}

		fmt.Printf("batch finished: %d processed, %d skipped, %d failed\n",
			len(result.Processed), result.Skipped, len(result.Failures))

		if result.Failed() {
			return errors.Newf("%d file(s) failed, see the log for details", len(result.Failures))
		}
		return nil
	},
}
