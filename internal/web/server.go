package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"audio-digest/internal/app/repository"
	"audio-digest/pkg/logger"
)

// Server is the read-only ledger API: a local diagnostic surface over the
// processing history, plus Prometheus metrics derived from it.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	log        *logger.Logger
}

func NewServer(addr string, ledger repository.LedgerDAO, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	h := &ledgerHandler{ledger: ledger}
	router.GET("/healthz", h.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/records", h.ListRecords)
		api.GET("/records/:id", h.GetRecord)
		api.GET("/stats", h.GetStats)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(newLedgerCollector(ledger))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		log:    log.Named("web"),
	}
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("serving ledger API", logger.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler tree for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
