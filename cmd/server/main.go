package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pierrolalune/CookBook2-sub001/config"
	httpDelivery "github.com/pierrolalune/CookBook2-sub001/internal/delivery/http"
	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
	"github.com/pierrolalune/CookBook2-sub001/internal/infrastructure/cache"
	"github.com/pierrolalune/CookBook2-sub001/internal/infrastructure/catalog"
	"github.com/pierrolalune/CookBook2-sub001/internal/logger"
	"github.com/pierrolalune/CookBook2-sub001/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync(zlog)

	zlog.Info("starting cookbook search server",
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog, from a local file or an http(s) URL
	source := catalog.NewSource(catalog.NewRemoteSource(zlog.Named("catalog")))
	cat, err := source.Catalog(ctx, cfg.Search.CatalogFile)
	if err != nil {
		zlog.Fatal("failed to load catalog", zap.String("location", cfg.Search.CatalogFile), zap.Error(err))
	}
	store := catalog.NewStore(cat, zlog.Named("catalog"))
	zlog.Info("catalog loaded",
		zap.Int("recipes", len(cat.Recipes)),
		zap.Int("ingredients", len(cat.Ingredients)))

	synonyms := usecase.DefaultSynonymTable
	if cfg.Search.SynonymsFile != "" {
		synonyms, err = source.Synonyms(ctx, cfg.Search.SynonymsFile)
		if err != nil {
			zlog.Fatal("failed to load synonym table", zap.String("location", cfg.Search.SynonymsFile), zap.Error(err))
		}
	}
	zlog.Info("synonym table", zap.String("version", synonyms.Version), zap.Int("groups", len(synonyms.Groups)))

	// Search cache
	searchCache := provideSearchCache(ctx, cfg, zlog)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(searchCache, usecase.SearchServiceConfig{
		CacheTTL:              cfg.Cache.TTL,
		DefaultMatchThreshold: cfg.Search.DefaultMatchThreshold,
		MaxSubstitutions:      cfg.Search.MaxSubstitutions,
		Synonyms:              synonyms,
		Logger:                zlog.Named("search"),
	})

	// Create HTTP handler with dependencies
	reloader := catalog.NewReloader(source, cfg.Search.CatalogFile, store, zlog.Named("catalog"))
	handler := httpDelivery.NewHandler(searchService, store, reloader, zlog.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, zlog.Named("http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// provideSearchCache returns the configured cache backend. A redis cache that
// cannot be reached falls back to memory so search keeps working.
func provideSearchCache(ctx context.Context, cfg *config.Config, zlog *zap.Logger) domain.SearchCache {
	if cfg.Cache.Type == "redis" {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		client, err := cache.NewValkeyClient(pingCtx, cfg.Cache.RedisURL)
		if err == nil {
			zlog.Info("valkey search cache enabled", zap.String("prefix", cfg.Cache.KeyPrefix))
			go func() {
				<-ctx.Done()
				client.Close()
			}()
			return cache.NewValkeyCache(client, cfg.Cache.KeyPrefix)
		}
		zlog.Error("valkey unavailable, falling back to memory cache", zap.Error(err))
	}

	memCache := cache.NewMemoryCache(
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
		cache.WithLogger(zlog.Named("cache")),
	)
	memCache.StartSweeper(ctx, cfg.Cache.SweepInterval)
	return memCache
}
