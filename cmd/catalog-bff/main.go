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

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/catalog-bff/pkg/api"
	"github.com/Sternrassler/catalog-bff/pkg/cache"
	"github.com/Sternrassler/catalog-bff/pkg/commerce"
	"github.com/Sternrassler/catalog-bff/pkg/config"
	"github.com/Sternrassler/catalog-bff/pkg/logging"
	"github.com/Sternrassler/catalog-bff/pkg/metrics"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.Setup(loggingConfig(cfg))

	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// loggingConfig derives the logger setup from cfg. Production always logs JSON.
func loggingConfig(cfg *config.Config) logging.Config {
	return logging.Config{
		Level:   logging.LogLevel(cfg.Log.Level),
		Pretty:  cfg.Log.Pretty && !cfg.IsProduction(),
		Output:  os.Stderr,
		Service: "catalog-bff",
	}
}

func run(cfg *config.Config) error {
	logger := logging.NewLogger("server")

	var (
		store api.Store
		probe pinger
	)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		manager := cache.NewManager(redisClient)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := manager.Ping(ctx); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, serving without cache until it recovers")
		} else {
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
		}
		cancel()

		store = manager
		probe = manager
	} else {
		logger.Info().Msg("Redis disabled, caching off")
	}

	commerceCfg := commerce.DefaultConfig(cfg.Commerce.BaseURL, cfg.Commerce.OrganizationID, cfg.Commerce.SiteID)
	commerceCfg.Timeout = cfg.Commerce.Timeout
	commerceCfg.RequestsPerSecond = cfg.Commerce.RequestsPerSecond
	commerceCfg.Retry.MaxAttempts = cfg.Commerce.MaxRetries + 1

	source, err := commerce.New(commerceCfg)
	if err != nil {
		return fmt.Errorf("create commerce client: %w", err)
	}

	handler := api.NewHandler(source, store, api.Options{
		FallbackDomain:    cfg.Domain.Fallback,
		CategoryTTL:       cfg.Cache.CategoryTTL,
		ProductSearchTTL:  cfg.Cache.ProductSearchTTL,
		CacheWriteTimeout: 5 * time.Second,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.LoggingMiddleware(logging.NewLogger("http"), newMux(handler, probe)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("env", cfg.Env).
			Str("commerce", cfg.Commerce.BaseURL).
			Bool("cache", store != nil).
			Msg("Starting catalog server")
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
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
	handler.Wait()

	return nil
}

// pinger reports whether a backing service is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

func newMux(handler *api.Handler, p pinger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", readyHandler(p))
	mux.Handle("GET /metrics", metrics.Handler())
	handler.Register(mux)
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// readyHandler answers 503 while the cache is unreachable. Without a cache
// the service is always ready.
func readyHandler(p pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := p.Ping(ctx); err != nil {
				http.Error(w, "Redis not reachable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}
