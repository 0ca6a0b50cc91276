package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"audio-digest/cmd/a2s/cmd/cliutil"
	"audio-digest/internal/app"
)

var addr string

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the processing ledger over HTTP",
	Long: `Serve the processing ledger over HTTP

- GET /api/v1/records, /api/v1/records/:id and /api/v1/stats
- Prometheus metrics on /metrics, liveness on /healthz
- Read-only: processing stays in the run and batch commands`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliutil.LoadConfig()
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Server.Addr = addr
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		srv, err := app.InitializeWebServer(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
