package fetch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"audio-digest/cmd/a2s/cmd/cliutil"
	"audio-digest/internal/app"
)

var downloadDir string

func init() {
	Cmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "directory to save the episode (default: paths.audio_dir)")
}

// Cmd represents the fetch command
var Cmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Download a podcast episode's audio for later processing",
	Long: `Download a podcast episode's audio for later processing

- Scrapes the episode page for its audio URL (og:audio, audio tags, enclosures)
- Saves the file into the audio directory named after the episode title
- Skips the download when a local copy already matches the remote size`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliutil.LoadConfig()
		if err != nil {
			return err
		}

		d, err := app.InitializeDownloader(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dir := downloadDir
		if dir == "" {
			dir = cfg.Paths.AudioDir
		}

		path, err := d.FetchEpisode(ctx, args[0], dir)
		if err != nil {
			return err
		}

		fmt.Println(path)
		return nil
	},
}
