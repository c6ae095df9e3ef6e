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

	"github.com/nikolayk812/rocketcart/internal/catalogapi"
	"github.com/nikolayk812/rocketcart/internal/config"
	"github.com/nikolayk812/rocketcart/internal/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("catalogapi stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logger.New(logger.Options{
		Service: "catalogapi",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	catalog, err := catalogapi.LoadSeed(cfg.CatalogSeed)
	if err != nil {
		return fmt.Errorf("catalogapi.LoadSeed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.CatalogAddr,
		Handler:           catalogapi.NewServer(catalog, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("catalog api listening", "addr", cfg.CatalogAddr, "products", len(catalog.Products))
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
