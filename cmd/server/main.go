package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quillhq/studio-gateway/internal/api"
	"github.com/quillhq/studio-gateway/internal/auth"
	"github.com/quillhq/studio-gateway/internal/config"
	"github.com/quillhq/studio-gateway/internal/edgeconfig"
	"github.com/quillhq/studio-gateway/internal/maintenance"
	"github.com/quillhq/studio-gateway/internal/manager"
	"github.com/quillhq/studio-gateway/internal/ollama"
	"github.com/quillhq/studio-gateway/internal/provision"
	"github.com/quillhq/studio-gateway/internal/session"
	"github.com/quillhq/studio-gateway/internal/store"
)

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	// SQLite
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Ollama
	ollamaClient := ollama.NewClient(
		cfg.OllamaBaseURL,
		time.Duration(cfg.OllamaTimeoutSecs)*time.Second,
		time.Duration(cfg.OllamaPullTimeoutSecs)*time.Second,
		logger,
	)
	mgr := manager.New(ollamaClient, cfg.OllamaBaseURL, func(id string) {
		logger.Info("model added", "id", id)
	}, logger)

	// Maintenance window
	var configSource maintenance.ConfigSource
	if cfg.EdgeConfigURL != "" {
		configSource = edgeconfig.NewClient(cfg.EdgeConfigURL, cfg.EdgeConfigToken)
	} else {
		logger.Info("edge config not configured, maintenance window always disabled")
	}
	resolver := maintenance.NewResolver(configSource, logger)

	// Sessions
	var sessMgr *session.Manager
	if cfg.AuthBaseURL != "" {
		authClient := auth.NewRemoteClient(
			cfg.AuthBaseURL,
			cfg.AuthToken,
			time.Duration(cfg.AuthPollIntervalSecs)*time.Second,
			logger,
		)
		sessMgr = session.NewManager(authClient, provision.NewService(db, logger), logger)
		sessMgr.Start()
	} else {
		logger.Info("auth not configured, session routes disabled")
	}

	// Router
	router := api.NewRouter(mgr, ollamaClient, resolver, sessMgr, cfg.APIKey, logger)

	// Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("gateway starting", "addr", addr, "ollama", cfg.OllamaBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Warm the model snapshot so the first panel open has data.
	go func() {
		status, list, _ := mgr.Open()
		logger.Info("initial model refresh", "accessible", status.Accessible, "models", len(list))
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	if sessMgr != nil {
		sessMgr.Close()
	}

	logger.Info("server stopped")
}
