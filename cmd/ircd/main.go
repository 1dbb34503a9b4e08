// Command ircd is the dual-protocol chat server binary. It loads a YAML
// configuration file (or falls back to defaults), opens the append-only
// inbound-line log, starts the chat listener and the admin HTTP surface, and
// shuts down gracefully on SIGTERM or SIGINT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tripwire/ircd/internal/adminhttp"
	"github.com/tripwire/ircd/internal/chatserver"
	"github.com/tripwire/ircd/internal/commands"
	"github.com/tripwire/ircd/internal/config"
	"github.com/tripwire/ircd/internal/logsink"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to a YAML config file (optional; defaults apply when omitted)")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ircd: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("ircd starting",
		slog.String("listen_addr", cfg.ListenAddr),
		slog.String("admin_addr", cfg.AdminAddr),
	)

	sink, err := logsink.Open(cfg.LogPath)
	if err != nil {
		logger.Error("failed to open inbound-line log", slog.Any("error", err))
		os.Exit(1)
	}
	defer sink.Close()

	manager := chatserver.NewManager(logger)
	registry := commands.NewRegistry()

	chatSrv, err := chatserver.NewServer(cfg.ListenAddr, manager, registry, sink, logger)
	if err != nil {
		logger.Error("failed to start chat listener", slog.Any("error", err))
		os.Exit(1)
	}

	startedAt := time.Now()
	adminSrv := &http.Server{
		Addr:         cfg.AdminAddr,
		Handler:      adminhttp.NewRouter(manager, startedAt),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	cleanupStop := make(chan struct{})
	go manager.RunCleanup(cfg.CleanupTick(), cfg.IdleTTL(), cleanupStop)

	// Chat listener goroutine.
	chatErrCh := make(chan error, 1)
	go func() {
		logger.Info("chat listener accepting connections", slog.String("addr", cfg.ListenAddr))
		if err := chatSrv.Run(); err != nil {
			chatErrCh <- fmt.Errorf("chat listener: %w", err)
		}
		close(chatErrCh)
	}()

	// Admin HTTP server goroutine.
	adminErrCh := make(chan error, 1)
	go func() {
		logger.Info("admin HTTP server listening", slog.String("addr", cfg.AdminAddr))
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			adminErrCh <- fmt.Errorf("admin HTTP server: %w", err)
		}
		close(adminErrCh)
	}()

	// Wait for shutdown signal or fatal error.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-chatErrCh:
		if err != nil {
			logger.Error("chat listener error", slog.Any("error", err))
		}
	case err := <-adminErrCh:
		if err != nil {
			logger.Error("admin HTTP server error", slog.Any("error", err))
		}
	}

	logger.Info("shutting down")
	close(cleanupStop)
	_ = chatSrv.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("admin HTTP server shutdown error", slog.Any("error", err))
	}

	logger.Info("ircd exited cleanly")
}

// loadConfig reads the YAML file at path, or returns config.Default() when
// path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

// newLogger constructs a *slog.Logger that writes JSON-structured log
// records to stderr at the requested minimum level.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
