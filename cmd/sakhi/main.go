package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sakhilabs/sakhi/internal/catalog"
	"github.com/sakhilabs/sakhi/internal/config"
	"github.com/sakhilabs/sakhi/internal/dialog"
	"github.com/sakhilabs/sakhi/internal/httpapi"
	"github.com/sakhilabs/sakhi/internal/ledger"
	"github.com/sakhilabs/sakhi/internal/observability"
	"github.com/sakhilabs/sakhi/internal/telegram"
	"github.com/sakhilabs/sakhi/internal/turnlog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	turns, err := turnlog.NewStore(ctx, cfg.DatabaseURL, cfg.TurnLogCapacity)
	if err != nil {
		log.Fatalf("turn log init failed: %v", err)
	}
	defer turns.Close()

	backend := ledger.NewClient(cfg.BackendURL, cfg.BackendAPIKey, cfg.BackendTimeout)

	engine := dialog.New(backend, turns, metrics, catalog.Language(cfg.DefaultLanguage))

	bot, err := telegram.NewBot(cfg.TelegramBotToken, engine, cfg.PollTimeout)
	if err != nil {
		log.Fatalf("telegram init failed: %v", err)
	}

	api := httpapi.New(backend, turns, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	go bot.Run(runCtx)

	go func() {
		log.Printf("ops server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
