package run

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
	"audio-digest/internal/app/pipeline"
)

var (
	inputFile  string
	outputName string
	formats    []string
	overrides  cliutil.Overrides
)

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "audio file to process")
	Cmd.Flags().StringVarP(&outputName, "output", "o", "",
		"base name for the generated files (default: YYYYMMDD_<input stem>)")
	Cmd.Flags().StringSliceVar(&formats, "formats", nil, "output formats: md,txt,pdf (default: md,pdf)")
	Cmd.Flags().StringVar(&overrides.Method, "method", "", "transcription method: api or local")
	Cmd.Flags().StringVar(&overrides.Language, "language", "", "spoken language: en or de")
	Cmd.Flags().StringVar(&overrides.OutputDir, "output-dir", "", "directory for the generated files")

	Cmd.MarkFlagRequired("input")
}

// Cmd represents the run command
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Transcribe and summarize a single audio file",
	Long: `Transcribe and summarize a single audio file

- Transcribe with the OpenAI audio API or a local whisper.cpp binary
- Summarize the transcript with the configured chat model
- Write the requested artifacts and record the run in the ledger`,
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

		if cfg.General.Method == "api" {
			if err := openaiclient.Preflight(ctx, openaiclient.NewClient(cfg)); err != nil {
				return err
			}
		}

		result, err := a.Pipeline.ProcessFile(ctx, inputFile, pipeline.Options{
			Formats:  formats,
			BaseName: outputName,
		})
		if err != nil {
			return err
		}

		for _, path := range result.OutputFiles {
			fmt.Println(path)
		}
		return nil
	},
}
