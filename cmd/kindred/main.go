// Package main is the entry point for the Kindred service.
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

	"github.com/kindredlabs/kindred/internal/config"
	"github.com/kindredlabs/kindred/internal/embeddings"
	"github.com/kindredlabs/kindred/internal/events"
	"github.com/kindredlabs/kindred/internal/server"
	"github.com/kindredlabs/kindred/internal/store"
)

func main() {
	// Logger
	logLevel := slog.LevelInfo
	if os.Getenv("KINDRED_LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Vector store
	qdrant := store.NewClient(cfg.QdrantURL())
	users := store.NewUserStore(qdrant)
	if err := users.Init(ctx); err != nil {
		logger.Error("failed to initialize vector store", "error", err)
		os.Exit(1)
	}
	logger.Info("vector store ready", "url", cfg.QdrantURL())

	// Embedding provider
	var embedder embeddings.Provider
	switch cfg.EmbeddingBackend {
	case "simple":
		embedder = embeddings.NewSimpleProvider()
	default:
		embedder = embeddings.NewOllamaProvider(cfg.OllamaHost, cfg.OllamaModels, logger)
	}
	logger.Info("embedding provider initialized", "backend", embedder.Name())

	// NATS — optional, service works without it
	var eventsClient *events.Client
	if cfg.NatsURL != "" {
		eventsClient, err = events.NewClient(cfg.NatsURL, logger)
		if err != nil {
			logger.Warn("failed to connect to NATS, running without event bus", "error", err)
			eventsClient = nil
		} else {
			defer eventsClient.Close()
			logger.Info("connected to NATS", "url", cfg.NatsURL)
		}
	}

	// Server
	srv := server.New(cfg, qdrant, users, embedder, eventsClient, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down gracefully...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("Kindred starting", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("Kindred stopped")
}
