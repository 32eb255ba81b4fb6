package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-backend/src/api"
	"expense-backend/src/chat"
	"expense-backend/src/config"
	"expense-backend/src/db"
	"expense-backend/src/logging"
	"expense-backend/src/metrics"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	store := db.NewExpenseStore()

	client := chat.NewAzureClient(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIAPIKey, cfg.AzureOpenAIDeployment, cfg.AzureOpenAIAPIVersion)
	relay := chat.NewRelay(client, cfg.AzureOpenAIDeployment, cfg.ChatMaxTokens, cfg.ChatTimeout)

	// Router
	router := api.NewRouter(store, relay, metrics.New(), cfg.AllowedOrigins, cfg.ReadOnly)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// chat replies can take up to ChatTimeout
		WriteTimeout: cfg.ChatTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("API server running", "addr", srv.Addr, "deployment", cfg.AzureOpenAIDeployment, "read_only", cfg.ReadOnly)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
