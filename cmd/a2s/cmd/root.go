package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"audio-digest/cmd/a2s/cmd/batch"
	"audio-digest/cmd/a2s/cmd/cliutil"
	"audio-digest/cmd/a2s/cmd/config"
	"audio-digest/cmd/a2s/cmd/export"
	"audio-digest/cmd/a2s/cmd/fetch"
	"audio-digest/cmd/a2s/cmd/run"
	"audio-digest/cmd/a2s/cmd/serve"
	"audio-digest/cmd/a2s/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a2s",
	Short: "Transcribe audio recordings and condense them into structured summaries",
	Long: `Transcribe audio recordings and condense them into structured summaries.
- Transcription runs against the OpenAI audio API or a local whisper.cpp binary
- Summaries come from an OpenAI or Gemini chat model driven by an editable prompt
- Processed files are recorded in a ledger so repeated runs skip finished work`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(run.Cmd)
	rootCmd.AddCommand(batch.Cmd)
	rootCmd.AddCommand(fetch.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&cliutil.ConfigPath, "config", "c", "",
		"config file (default: ./a2s.yaml, then the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&cliutil.Verbose, "verbose", "V", false, "verbose output")
}
