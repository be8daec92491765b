package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/gateway"
	"github.com/mmcdole/marquee/internal/tmdb"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")

	var listen string
	var logToFile bool
	flag.StringVar(&listen, "listen", "", "listen `address`, overrides gateway.listen")
	flag.BoolVar(&logToFile, "log-file", false, "log to the configured file instead of stderr")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee-gateway %s\n", Version)
		return
	}

	if err := run(listen, logToFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(listen string, logToFile bool) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if listen != "" {
		cfg.Gateway.Listen = listen
	}

	// Setup logger; a server logs to stderr unless asked otherwise
	logCfg := cfg.Logging
	if !logToFile {
		logCfg.File = ""
	}
	logger, err := adapter.SetupLogger(&logCfg)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee-gateway", "version", Version)

	upstream, err := tmdb.NewClient(cfg.TMDBClientConfig(), logger)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := gateway.NewServer(cfg.GatewayServerConfig(), upstream, logger)
	if err := srv.Serve(ctx); err != nil {
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("shutting down")
	return nil
}
