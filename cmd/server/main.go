// Package main implements the entry point for the flashcards server: a
// local HTTP API over a persisted card collection with study and quiz
// modes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Baotq1406/Flashcards-ENG/internal/api"
	"github.com/Baotq1406/Flashcards-ENG/internal/config"
	"github.com/Baotq1406/Flashcards-ENG/internal/platform/blobstore"
	"github.com/Baotq1406/Flashcards-ENG/internal/platform/logger"
	"github.com/Baotq1406/Flashcards-ENG/internal/service/quiz"
	"github.com/Baotq1406/Flashcards-ENG/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_backend", cfg.Storage.Backend)

	blob, cleanup, err := openBlobStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	cards, err := store.NewCardStore(blob, appLogger)
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}
	history, err := store.NewSessionStore(blob, appLogger)
	if err != nil {
		return fmt.Errorf("failed to load session history: %w", err)
	}

	registry := api.NewSessionRegistry()
	defer registry.Close()

	quizCfg := quiz.Config{
		MaxQuestions:    cfg.Quiz.MaxQuestions,
		QuestionSeconds: cfg.Quiz.QuestionSeconds,
	}

	router := api.NewRouter(
		api.NewCardHandler(cards, appLogger),
		api.NewStudyHandler(cards, history, registry, appLogger),
		api.NewQuizHandler(cards, registry, quizCfg, nil, appLogger),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openBlobStore builds the configured persistence backend. The returned
// cleanup closes backend resources and may be nil.
func openBlobStore(cfg config.StorageConfig) (blobstore.Store, func(), error) {
	switch cfg.Backend {
	case "file":
		s, err := blobstore.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "sqlite":
		s, err := blobstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "memory":
		return blobstore.NewMemStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
