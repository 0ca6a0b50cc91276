package app

import (
	"audio-digest/internal/app/api"
	"audio-digest/internal/app/api/gemini"
	openaiclient "audio-digest/internal/app/api/openai"
	"audio-digest/internal/app/api/openai/chat"
	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/pipeline"
	"audio-digest/internal/app/repository"
	"audio-digest/internal/app/repository/pg"
	"audio-digest/internal/app/repository/sqlite"
	"audio-digest/internal/config"
	"audio-digest/internal/downloader"
	"audio-digest/internal/web"
	"audio-digest/pkg/executor"
	"audio-digest/pkg/logger"
)

// App is the wired object graph behind the processing commands.
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	Pipeline *pipeline.Pipeline
}

// Close releases the ledger connection held by the pipeline.
func (a *App) Close() error {
	return a.Pipeline.Close()
}

func provideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Paths.LogFile,
	})
}

func provideExecutor() executor.Executor {
	return executor.New()
}

func provideAudioProcessor(exec executor.Executor, log *logger.Logger) *audio.Processor {
	return audio.NewProcessor(exec, log)
}

func provideAPIDeps(processor *audio.Processor, exec executor.Executor, log *logger.Logger) api.Deps {
	return api.Deps{
		Audio: processor,
		Exec:  exec,
		Log:   log,
	}
}

// provideTranscriber resolves general.method against the registered provider
// packages; main.go blank-imports them so their init runs first.
func provideTranscriber(cfg *config.Config, deps api.Deps) (api.Transcriber, error) {
	return api.NewTranscriber(cfg.General.Method, cfg, deps)
}

func provideSummarizer(cfg *config.Config, log *logger.Logger) (api.Summarizer, error) {
	switch cfg.Summary.Provider {
	case "openai":
		if err := cfg.RequireOpenAIKey(); err != nil {
			return nil, err
		}
		return chat.NewSummarizer(openaiclient.NewClient(cfg), log), nil
	case "gemini":
		if err := cfg.RequireGeminiKey(); err != nil {
			return nil, err
		}
		return gemini.NewSummarizer(cfg.Gemini.APIKey, log), nil
	default:
		return nil, errors.Wrapf(errors.ErrProviderNotFound, "unknown summary provider %q", cfg.Summary.Provider)
	}
}

func provideLedger(cfg *config.Config) (repository.LedgerDAO, error) {
	switch cfg.Ledger.Driver {
	case "postgres":
		return pg.NewPostgresDB(cfg.Ledger.DSN)
	default:
		return sqlite.NewSQLiteDB(cfg.Ledger.DBPath)
	}
}

func provideDownloader(log *logger.Logger) *downloader.Downloader {
	return downloader.New(log)
}

func provideWebServer(cfg *config.Config, ledger repository.LedgerDAO, log *logger.Logger) *web.Server {
	return web.NewServer(cfg.Server.Addr, ledger, log)
}
