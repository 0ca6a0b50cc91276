package whisper_cpp

import (
	"os"

	"audio-digest/internal/app/api"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/config"
)

func init() {
	api.Register("local", func(cfg *config.Config, deps api.Deps) (api.Transcriber, error) {
		if _, err := os.Stat(cfg.WhisperLocal.BinaryPath); err != nil {
			return nil, errors.Wrapf(errors.ErrFileNotFound, "whisper.cpp binary %s", cfg.WhisperLocal.BinaryPath)
		}
		if _, err := os.Stat(cfg.WhisperLocal.ModelPath); err != nil {
			return nil, errors.Wrapf(errors.ErrFileNotFound, "whisper.cpp model %s", cfg.WhisperLocal.ModelPath)
		}
		return NewLocalTranscriber(deps.Exec, deps.Audio, deps.Log, cfg), nil
	})
}
