//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"audio-digest/internal/app/pipeline"
	"audio-digest/internal/app/repository"
	"audio-digest/internal/config"
	"audio-digest/internal/downloader"
	"audio-digest/internal/web"
)

// InitializeApp builds the full processing graph for the run and batch
// commands: transcriber, summarizer, ledger and pipeline.
func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(
		provideLogger,
		provideExecutor,
		provideAudioProcessor,
		provideAPIDeps,
		provideTranscriber,
		provideSummarizer,
		provideLedger,
		pipeline.New,
		wire.Struct(new(App), "*"),
	)
	return &App{}, nil
}

// InitializeLedger opens just the ledger, for commands that only read or
// export history and must not require API credentials.
func InitializeLedger(cfg *config.Config) (repository.LedgerDAO, error) {
	wire.Build(provideLedger)
	return nil, nil
}

// InitializeDownloader builds the episode fetcher.
func InitializeDownloader(cfg *config.Config) (*downloader.Downloader, error) {
	wire.Build(provideLogger, provideDownloader)
	return nil, nil
}

// InitializeWebServer builds the read-only ledger API server.
func InitializeWebServer(cfg *config.Config) (*web.Server, error) {
	wire.Build(provideLogger, provideLedger, provideWebServer)
	return nil, nil
}
