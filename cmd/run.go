package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shoplinehq/commerce-manager/config"
	"github.com/shoplinehq/commerce-manager/internal/analytics"
	httpapi "github.com/shoplinehq/commerce-manager/internal/api/http"
	"github.com/shoplinehq/commerce-manager/internal/cache"
	"github.com/shoplinehq/commerce-manager/internal/store"
	"github.com/shoplinehq/commerce-manager/log"
)

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.SetDefault(log.New(cfg.Logger))

	rep, err := store.New(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("cannot connect to the store %v", err.Error())
	}
	defer rep.Close()

	an, err := analytics.New(&cfg.Analytics, rep)
	if err != nil {
		return fmt.Errorf("cannot init analytics %v", err.Error())
	}

	srv := httpapi.New(&cfg.HTTP, rep, an,
		cache.NewRecentlyViewed(cfg.Cache.RecentlyViewedCapacity),
		cache.NewComparison(cfg.Cache.ComparisonCapacity),
	)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving http", "address", cfg.HTTP.Address)
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	select {
	case s := <-sigCh:
		slog.Warn("signal received, exiting", "signal", s.String())
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "err", err)
		}
		slog.Info("application exited")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed %v", err.Error())
		}
	}

	return nil
}
