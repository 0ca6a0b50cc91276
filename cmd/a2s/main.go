package main

import (
	"fmt"
	"os"

	"audio-digest/cmd/a2s/cmd"
	"audio-digest/internal/config"

	// Import providers to register them
	_ "audio-digest/internal/app/api/openai/whisper"
	_ "audio-digest/internal/app/api/whisper_cpp"
)

func main() {
	// A missing .env is fine; keys can come from a2s.yaml or the environment.
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
	}

	cmd.Execute()
}
