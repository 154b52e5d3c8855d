package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/david/uni-finder/internal/api"
	"github.com/david/uni-finder/internal/config"
	"github.com/david/uni-finder/internal/ingest"
	"github.com/david/uni-finder/internal/logging"
	"github.com/david/uni-finder/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file (overrides $"+config.EnvFile+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// No logger yet; fall back to a default one for this message.
		logging.Must("info").Fatal("failed to load config", zap.Error(err))
	}

	logger := logging.Must(cfg.Log.Level)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := ingest.NewHTTPFetcher(cfg.Fetch())
	cat := ingest.Load(ctx, cfg.Dataset.Source, fetcher, logger)

	srv := api.NewServer(cat, api.Options{
		PageSize:    cfg.Query.PageSize,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
		Metrics:     metrics.New(),
	})

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.Start(cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
