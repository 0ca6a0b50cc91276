package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"audio-digest/cmd/a2s/cmd/cliutil"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/summary"
	"audio-digest/internal/config"
)

var force bool

func init() {
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(showCmd)
}

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the a2s configuration",
	Long: `Manage the a2s configuration

- init writes a default a2s.yaml plus the summary prompt file
- show prints the effective configuration after merging file, environment and defaults`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default a2s.yaml and summary prompt file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cliutil.ConfigPath
		if path == "" {
			path = "a2s.yaml"
		}
		if _, err := os.Stat(path); err == nil && !force {
			return errors.Newf("%s already exists, pass --force to overwrite", path)
		}

		cfg := config.Scaffold()
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		if err := summary.EnsurePromptFile(cfg.Summary.PromptFile); err != nil {
			return err
		}

		fmt.Printf("wrote %s and %s\n", path, cfg.Summary.PromptFile)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliutil.LoadConfig()
		if err != nil {
			return err
		}

		display := *cfg
		display.OpenAI.APIKey = maskKey(display.OpenAI.APIKey)
		display.Gemini.APIKey = maskKey(display.Gemini.APIKey)

		data, err := yaml.Marshal(&display)
		if err != nil {
			return errors.Wrap(err, "failed to render config")
		}
		fmt.Print(string(data))
		return nil
	},
}

// maskKey keeps enough of a key to recognize which one is set without
// printing the secret.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
