package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tribeserver/internal/adapter/repo"
	httpapi "tribeserver/internal/http"
	"tribeserver/internal/http/handlers"
	"tribeserver/internal/infra"
	"tribeserver/internal/infra/geoip"
	"tribeserver/internal/providers/image"
	"tribeserver/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	countries, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}

	generator := image.NewGeminiGenerator(image.GeminiOptions{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})

	results := repo.NewResultRepository(dbpool)
	app := handlers.NewApp(cfg, logger, results, store, generator)
	router := httpapi.NewRouter(app, cfg, logger, countries)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newStore(cfg *infra.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case infra.StorageDriverBucket:
		return storage.NewBucketStore(storage.BucketOptions{
			BaseURL:    cfg.StorageBaseURL,
			Bucket:     cfg.StorageBucket,
			ServiceKey: cfg.StorageServiceKey,
		})
	default:
		return storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	}
}
