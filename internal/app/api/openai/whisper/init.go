package whisper

import (
	"audio-digest/internal/app/api"
	openaiclient "audio-digest/internal/app/api/openai"
	"audio-digest/internal/config"
)

func init() {
	api.Register("api", func(cfg *config.Config, deps api.Deps) (api.Transcriber, error) {
		if err := cfg.RequireOpenAIKey(); err != nil {
			return nil, err
		}
		return NewRemoteTranscriber(openaiclient.NewClient(cfg), deps.Audio, deps.Log, cfg), nil
	})
}
