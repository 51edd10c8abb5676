package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gemini-chat/internal/config"
	"gemini-chat/internal/handlers"
	"gemini-chat/internal/logging"
	"gemini-chat/internal/router"
	"gemini-chat/internal/services"
	"gemini-chat/internal/web"
)

func main() {
	if err := run(); err != nil {
		logging.GetLogger().Fatalf("✗ %v", err)
	}
}

func run() error {
	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	log := logging.InitLogger(logging.ParseLevel(cfg.LogLevel))
	log.Infof("🚀 Starting Gemini Chat (%s)...", cfg.Env)

	// ──── Step 2: Initialize Gemini Client ────
	generator, err := services.NewGenerator(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("gemini client initialization failed: %w", err)
	}
	defer func() {
		if err := generator.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Gemini client")
		}
	}()
	log.Infof("✓ Gemini client initialized (backend=%s, model=%s)", cfg.GeminiBackend, cfg.GeminiModel)

	// ──── Step 3: Start HTTP Server ────
	chatHandler := handlers.NewChatHandler(generator, web.ChatPage(), log)
	r := router.New(chatHandler, log)

	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Server shutdown error")
		}
	}()

	log.Infof("✓ Gemini Chat ready on http://%s", cfg.Addr())

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	<-shutdownDone
	log.Info("✓ Server stopped")
	return nil
}
