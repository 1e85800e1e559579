package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"article-store/cache"
	"article-store/config"
	"article-store/coordinator"
	"article-store/driver"
	"article-store/events"
	"article-store/handler"
	"article-store/logger"
	"article-store/repository"
	"article-store/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "article-store: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; the environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	log.InfoContext(ctx, "configuration loaded",
		"port", cfg.Server.Port,
		"remote_base_url", cfg.Remote.BaseURL,
		"sync_concurrency", cfg.Sync.Concurrency,
		"events_enabled", cfg.Events.Enabled)

	pool, err := driver.Init(ctx, cfg.Database.ConnString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	readStore := repository.NewStore(pool, log)
	coord := coordinator.New(pool, readStore, log)

	existence := cache.NewExistenceCache(cfg.Cache.ExistenceTTL, cfg.Cache.ExistenceCapacity)
	guard := cache.NewDedupGuard(cfg.Cache.DedupTTL, cfg.Cache.DedupCapacity)

	publisher := events.NewNopPublisher()
	if cfg.Events.Enabled {
		publisher, err = events.NewPublisher(events.Config{
			RedisURL:  cfg.Events.RedisURL,
			StreamKey: cfg.Events.StreamKey,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create event publisher: %w", err)
		}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("failed to close event publisher", "error", err)
		}
	}()

	remote := service.NewRemoteClient(cfg.Remote, log)
	ingestion := service.NewIngestionService(coord, guard, existence, log)
	resolver := service.NewBatchResolver(readStore, existence, cfg.Sync.ChunkSize, log)
	syncService := service.NewSyncService(remote, resolver, ingestion, publisher, cfg.Sync.Concurrency, log)
	catalog := service.NewCatalogService(coord, existence, guard, publisher, log)

	e := handler.NewRouter(
		handler.NewArticleHandler(catalog, log),
		handler.NewSyncHandler(syncService, log),
		handler.NewHealthHandler(readStore, log),
		log,
	)

	address := fmt.Sprintf(":%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "starting article-store server", "address", address)
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.InfoContext(ctx, "shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.InfoContext(ctx, "server exited")

	return nil
}
