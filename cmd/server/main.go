package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkaran/cvsift/internal/api"
	"github.com/mkaran/cvsift/internal/capability"
	"github.com/mkaran/cvsift/internal/config"
	"github.com/mkaran/cvsift/internal/pipeline"
	"github.com/mkaran/cvsift/internal/schema"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The capability handle is shared process-wide and read-only after init.
	caps := capability.Shared(capability.Options{
		BaseURL:  cfg.InferenceURL,
		APIToken: cfg.InferenceToken,
		QAModel:  cfg.QAModel,
		NERModel: cfg.NERModel,
		Timeout:  cfg.CapabilityTimeout,
		Logger:   log,
	})

	// Initialize pipeline over the default resume schema.
	orch := pipeline.NewOrchestrator(cfg, caps, schema.Resume(), log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		caps.Close()
	}()

	log.Info("starting cvsift", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
