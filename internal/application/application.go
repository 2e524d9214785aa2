package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"gift_wheel/internal/config"
	"gift_wheel/internal/domain/service/acquisition"
	"gift_wheel/internal/domain/service/market"
	"gift_wheel/internal/domain/service/settlement"
	"gift_wheel/internal/domain/service/wheel"
	"gift_wheel/internal/infrastructure/getgems"
	"gift_wheel/internal/infrastructure/kv"
	"gift_wheel/internal/infrastructure/listing"
	"gift_wheel/internal/infrastructure/notifier"
	"gift_wheel/internal/infrastructure/persistence"
	"gift_wheel/internal/infrastructure/rates"
	"gift_wheel/internal/infrastructure/ton"
	"gift_wheel/internal/infrastructure/wheelstore"
	"gift_wheel/internal/server"
	"gift_wheel/internal/transport/bot"
	"gift_wheel/internal/transport/bot/handler"
	"gift_wheel/internal/worker"
	"gift_wheel/pkg/application/connectors"
	"gift_wheel/pkg/application/modules"
	"gift_wheel/pkg/contextx"
	"gift_wheel/pkg/httpx"
	"gift_wheel/pkg/logx"
	"gift_wheel/pkg/middlewarex"
	"gift_wheel/pkg/probe"
	"gift_wheel/pkg/retry"
)

const logFieldMaxLen = 4096

func Run(ctx context.Context, log *slog.Logger) error { //nolint:funlen
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log = log.With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	ctx = contextx.WithLogger(ctx, log)

	// 2. Storages
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	rdb := &connectors.Redis{
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		Address:            cfg.Redis.Address,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rdb.Client(ctx)
	store := kv.NewRedis(redisClient)
	defer rdb.Close(ctx)

	ledgerRepo := persistence.NewLedgerRepository(db)
	giftRepo := persistence.NewUserGiftRepository(db)
	index := listing.New(store)
	wheels := wheelstore.New(store, cfg.Wheel.TTL)

	// 3. External APIs
	ratesProvider := rates.NewProvider(
		newHTTPClient(cfg.Market.RequestTimeout, "Authorization", bearer(cfg.Rates.APIKey)),
		rates.Config{
			URL:            cfg.Rates.URL,
			StarsUSD:       cfg.Rates.StarsUSD,
			FallbackTonUSD: cfg.Rates.FallbackTonUSD,
		},
	)

	getgemsClient := getgems.NewClient(
		newHTTPClient(cfg.Market.RequestTimeout, "Authorization", cfg.Market.GetgemsAPIKey),
		cfg.Market.GetgemsURL,
	)

	tonClient, err := ton.Connect(ctx, ton.Config{
		ConfigURL: cfg.TON.ConfigURL,
		Mnemonic:  cfg.TON.Mnemonic,
	})
	if err != nil {
		return fmt.Errorf("ton.Connect: %w", err)
	}

	// 4. Services
	pipeline := acquisition.NewPipeline(tonClient).WithRetryPolicy(retry.Policy{
		MaxRetries: cfg.TON.MaxRetries,
		BaseDelay:  cfg.TON.BaseDelay,
	})

	composerCfg := wheel.DefaultConfig()
	composerCfg.RTP = cfg.Wheel.RTP

	wheelService := wheel.NewService(wheel.NewComposer(composerCfg), ratesProvider, index, wheels, index).
		WithPriceRange(cfg.Wheel.PriceRangePercent)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DatabaseNumber,
	}

	asynqClient := asynq.NewClient(redisOpt)
	defer func() {
		if err := asynqClient.Close(); err != nil {
			log.Error("asynqClient.Close", logx.Error(err))
		}
	}()

	orchestrator := settlement.NewOrchestrator(wheels, ledgerRepo, giftRepo, worker.NewPurchaseQueue(asynqClient)).
		WithConsumeOnce(cfg.Wheel.ConsumeOnce)

	syncer := market.NewSyncer(getgemsClient, tonClient, index, cfg.Market.SaleCodeHashes)
	marketSync := worker.NewMarketSync(syncer, worker.NewCollections(cfg.Market.Collections...)).
		WithInterval(cfg.Market.SyncInterval).
		WithInitialPass(cfg.Market.SyncOnStart)

	// 5. Admin bot and notifications
	var (
		alerts   worker.Notifier = notifier.Nop{}
		adminBot *bot.Bot
	)

	if cfg.Bot.Enabled() {
		adminBot, err = bot.New(cfg.Bot, handler.New(ctx, marketSync, index, wheelService))
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		chatID := cfg.Bot.AlertChatID
		if chatID == 0 {
			chatID = cfg.Bot.AdminID
		}
		alerts = notifier.NewTelegramBotFrom(adminBot.Telego(), chatID)
	} else {
		log.Warn("bot token is empty, admin bot and alerts are disabled")
	}

	// 6. Modules
	srv := server.NewServer(
		server.NewGiftServer(wheelService, orchestrator, index, giftRepo, ledgerRepo),
		server.NewNftServer(pipeline),
	)

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.LogContext(log),
		middlewarex.Recovery,
		middlewarex.RequestLogging(logx.NewSensitiveDataMasker(), logFieldMaxLen),
		middlewarex.ResponseLogging(logx.NewSensitiveDataMasker(), logFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	})

	modules.MetricServer{ListenAddress: cfg.HTTP.MetricsListenAddress}.Run(ctx, g)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
		Checks: map[string]probe.Check{
			"postgres": db.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	}.Run(ctx, g)

	purchaseHandler := worker.NewPurchaseHandler(pipeline, alerts)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
		Concurrency:   cfg.Asynq.Concurrency,
	}.Run(ctx, g, modules.AsynqQueues{worker.QueueAcquisition: 1}, modules.AsynqHandler{
		Pattern: worker.TypePurchaseNFT,
		Handle:  purchaseHandler.Handle,
	})

	if err := marketSync.Start(ctx); err != nil {
		return fmt.Errorf("marketSync.Start: %w", err)
	}
	defer marketSync.Stop()

	if adminBot != nil {
		g.Go(func() error {
			if err := adminBot.Run(ctx); err != nil {
				return fmt.Errorf("adminBot.Run: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func newHTTPClient(timeout time.Duration, header, key string) *http.Client {
	var transport http.RoundTripper = httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
	)

	transport = httpx.NewAPIKeyRoundTripper(transport, header, key)

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func bearer(key string) string {
	if key == "" {
		return ""
	}
	return "Bearer " + key
}
