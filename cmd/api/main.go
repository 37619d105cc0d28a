package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/suvai/freshmart-backend/api/controllers"
	"github.com/suvai/freshmart-backend/api/routes"
	"github.com/suvai/freshmart-backend/internal/cart"
	"github.com/suvai/freshmart-backend/internal/catalog"
	"github.com/suvai/freshmart-backend/internal/chat"
	"github.com/suvai/freshmart-backend/internal/locator"
	"github.com/suvai/freshmart-backend/pkg/chatapi"
	"github.com/suvai/freshmart-backend/pkg/config"
	"github.com/suvai/freshmart-backend/pkg/db"
	"github.com/suvai/freshmart-backend/pkg/localstore"
	"github.com/suvai/freshmart-backend/pkg/logger"
	"github.com/suvai/freshmart-backend/pkg/metrics"
	"github.com/suvai/freshmart-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, closers, readiness, err := buildBlobStore(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap blob storage", err)
		os.Exit(1)
	}
	defer func() {
		var closeErr error
		for _, closer := range closers {
			closeErr = multierr.Append(closeErr, closer.Close())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing storage", closeErr)
		}
	}()

	products := catalog.Default()

	cartRepo, err := cart.NewRepository(store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart repository", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, products, logg, cfg.Checkout.ProcessingDelay)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	locatorService, err := locator.NewService(locator.Default())
	if err != nil {
		logg.Error(context.Background(), "failed to create store locator", err)
		os.Exit(1)
	}

	chatClient, err := chatapi.NewClient(cfg.Chat.BackendURL, chatapi.WithTimeout(cfg.Chat.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create chat backend client", err)
		os.Exit(1)
	}
	chatService, err := chat.NewService(chatClient, store, products, locatorService, logg, cfg.Chat.FallbackDelay)
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		Catalog:     products,
		CartService: cartService,
		ChatService: chatService,
		Locator:     locatorService,
		HTTPMetrics: httpMetrics,
		Registry:    registry,
		Readiness:   readiness,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": strings.ToLower(cfg.Storage.Driver),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server stopped")
}

// buildBlobStore selects the local-storage analogue from configuration:
// memory for local runs and tests, redis or a relational table for deploys.
func buildBlobStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (localstore.Store, []io.Closer, []controllers.Dependency, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case config.StorageDriverMemory:
		return localstore.NewMemory(), nil, nil, nil

	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, nil, err
		}
		return localstore.NewRedis(client),
			[]io.Closer{client},
			[]controllers.Dependency{{Name: "redis", Pinger: client}},
			nil

	case config.StorageDriverDatabase:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, nil, err
		}
		store, err := localstore.NewDB(client.DB())
		if err != nil {
			return nil, nil, nil, multierr.Append(err, client.Close())
		}
		return store,
			[]io.Closer{client},
			[]controllers.Dependency{{Name: "database", Pinger: client}},
			nil

	default:
		return nil, nil, nil, errors.New("unknown storage driver " + cfg.Storage.Driver)
	}
}
