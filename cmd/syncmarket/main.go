package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"gift_wheel/internal/config"
	"gift_wheel/internal/domain/service/market"
	"gift_wheel/internal/infrastructure/getgems"
	"gift_wheel/internal/infrastructure/kv"
	"gift_wheel/internal/infrastructure/listing"
	"gift_wheel/internal/infrastructure/ton"
	"gift_wheel/internal/worker"
	"gift_wheel/pkg/application/connectors"
	"gift_wheel/pkg/contextx"
	"gift_wheel/pkg/httpx"
	"gift_wheel/pkg/logx"
)

// Разовая синхронизация индекса листингов:
//
//	go run ./cmd/syncmarket -collections EQ...,EQ...
//
// Без -collections берутся коллекции из MARKET_COLLECTIONS, а если и там
// пусто, то полный список у маркетплейса.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collections := flag.String("collections", "", "comma separated collection addresses")
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelInfo, TimeFormat: time.DateTime}))
	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, *collections); err != nil {
		log.Error("sync failed", logx.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, collectionsFlag string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	rdb := &connectors.Redis{
		Username:       cfg.Redis.Username,
		Password:       cfg.Redis.Password,
		Address:        cfg.Redis.Address,
		DatabaseNumber: cfg.Redis.DatabaseNumber,
		PoolSize:       cfg.Redis.PoolSize,
	}
	index := listing.New(kv.NewRedis(rdb.Client(ctx)))
	defer rdb.Close(ctx)

	getgemsClient := getgems.NewClient(&http.Client{
		Transport: httpx.NewAPIKeyRoundTripper(http.DefaultTransport, "Authorization", cfg.Market.GetgemsAPIKey),
		Timeout:   cfg.Market.RequestTimeout,
	}, cfg.Market.GetgemsURL)

	// кошелёк для синхронизации не нужен
	tonClient, err := ton.Connect(ctx, ton.Config{ConfigURL: cfg.TON.ConfigURL})
	if err != nil {
		return fmt.Errorf("ton.Connect: %w", err)
	}

	addrs := cfg.Market.Collections
	if collectionsFlag != "" {
		addrs = strings.Split(collectionsFlag, ",")
	}
	collections := worker.NewCollections(addrs...)

	report, err := market.NewSyncer(getgemsClient, tonClient, index, cfg.Market.SaleCodeHashes).
		SyncAll(ctx, collections.List())
	if err != nil {
		return fmt.Errorf("syncer.SyncAll: %w", err)
	}

	fmt.Printf("collections: %d (failed %d)\n", report.Collections, report.Failed)
	fmt.Printf("listings: seen %d, saved %d\n", report.Seen, report.Saved)
	fmt.Printf("index size: %d\n", report.Indexed)
	fmt.Printf("took: %s\n", report.Duration.Round(time.Millisecond))

	return nil
}
