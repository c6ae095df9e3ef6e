package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/rocketcart/internal/cart"
	"github.com/nikolayk812/rocketcart/internal/config"
	"github.com/nikolayk812/rocketcart/internal/httpapi"
	"github.com/nikolayk812/rocketcart/internal/logger"
	"github.com/nikolayk812/rocketcart/internal/notify"
	"github.com/nikolayk812/rocketcart/internal/port"
	"github.com/nikolayk812/rocketcart/internal/remote"
	"github.com/nikolayk812/rocketcart/internal/repository"
	"github.com/nikolayk812/rocketcart/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("cartd stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logger.New(logger.Options{
		Service: "cartd",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.InitTracerProvider(ctx, "cartd", cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry.InitTracerProvider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("tracer provider shutdown", "err", err)
		}
	}()

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openStorage: %w", err)
	}
	defer closeStorage()

	client, err := remote.New(cfg.CatalogURL, remote.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("remote.New: %w", err)
	}

	store, err := cart.NewStore(ctx, storage, client, client,
		notify.Multi(notify.NewLog(log), notify.NewInbox()),
		cart.Options{
			Key:      cfg.StorageKey,
			Currency: cfg.CurrencyUnit(),
			Logger:   log,
		})
	if err != nil {
		return fmt.Errorf("cart.NewStore: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewAPI(store, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("cart api listening", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStorage(ctx context.Context, cfg config.Config) (port.Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		return repository.NewPostgres(pool), pool.Close, nil

	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.RedisAddr)
		if err != nil {
			opts = &redis.Options{Addr: cfg.RedisAddr}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedis(client), func() { _ = client.Close() }, nil

	default:
		return repository.NewMemory(), func() {}, nil
	}
}
