package gateway

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/marquee/internal/domain"
)

const shutdownTimeout = 10 * time.Second

// Config holds the proxy server settings
type Config struct {
	Addr         string
	CacheMaxAge  time.Duration
	RateLimit    RateLimitConfig
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server is the catalog proxy HTTP server
type Server struct {
	cfg     Config
	handler http.Handler
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer wires routes, middleware and metrics around upstream
func NewServer(cfg Config, upstream domain.CatalogGateway, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(
		Recovery(logger),
		RequestID(),
		Logger(logger),
		CORS(),
		RateLimit(cfg.RateLimit, logger),
	)

	NewHandler(upstream, cfg.CacheMaxAge, logger).RegisterRoutes(engine)
	engine.GET("/debug/vars", gin.WrapH(expvar.Handler()))

	metrics := NewMetrics()
	return &Server{
		cfg:     cfg,
		handler: metrics.Wrap(engine),
		metrics: metrics,
		logger:  logger,
	}
}

// Handler returns the root handler, metrics included
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the server's counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Serve listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting gateway", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gateway server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("gateway server: %w", err)
	}
	s.logger.Info("gateway stopped")
	return nil
}
