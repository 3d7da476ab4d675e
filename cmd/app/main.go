// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"stock-lookup-bot/internal/application"
	"stock-lookup-bot/internal/config"
	"stock-lookup-bot/internal/domain/ports/adapter"
	tele "stock-lookup-bot/internal/infra/adapters/telegram"
	"stock-lookup-bot/internal/infra/db/mongodb"
	httpapi "stock-lookup-bot/internal/infra/http"
	"stock-lookup-bot/internal/infra/i18n"
	"stock-lookup-bot/internal/infra/logging"
	"stock-lookup-bot/internal/infra/metrics"
	red "stock-lookup-bot/internal/infra/redis"
	"stock-lookup-bot/internal/infra/sched"
	"stock-lookup-bot/internal/usecase"
)

// set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode: console logs, token optional (stdin chat)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("config")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- MongoDB ----
	mongoClient, err := mongodb.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("uri", logging.Redact(cfg.Mongo.URI, cfg.Runtime.Dev)).Msg("mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			logger.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)
	if names, err := mongodb.CollectionNames(ctx, db); err != nil {
		logger.Warn().Err(err).Msg("could not list collections")
	} else {
		logger.Info().Str("database", cfg.Mongo.Database).Strs("collections", names).Msg("collections available")
	}

	// ---- Redis (optional) ----
	var rateLimiter tele.RateLimiter
	if cfg.Redis.URL != "" && cfg.Bot.RateLimit > 0 {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
		} else {
			defer redisClient.Close()
			rateLimiter = red.NewRateLimiter(redisClient, cfg.Bot.RateLimit, cfg.Bot.RateLimitEvery)
			logger.Info().Int("limit", cfg.Bot.RateLimit).Dur("window", cfg.Bot.RateLimitEvery).Msg("rate limiting enabled")
		}
	}

	// ---- Repositories / use cases ----
	stockRepo := mongodb.NewStockRepo(db)
	stockUC := usecase.NewStockUseCase(stockRepo, usecase.StockOptions{
		QueryTimeout: cfg.Lookup.QueryTimeout,
		Diagnostics:  cfg.Lookup.Diagnostics,
		SampleSize:   cfg.Lookup.SampleSize,
	}, logger)

	// ---- Facade ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.I18n.Lang)
	if err != nil {
		logger.Fatal().Err(err).Str("lang", cfg.I18n.Lang).Msg("i18n")
	}
	facade := application.NewBotFacade(stockUC, tr, logger)

	// ---- Telegram ----
	var botAdapter adapter.TelegramBotAdapter
	if cfg.Bot.Token == "" {
		logger.Warn().Msg("no bot token, reading messages from stdin")
		botAdapter = tele.NewNoopBotAdapter(facade, os.Stdin, logger)
	} else {
		botAdapter, err = tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, logger)
		if err != nil {
			logger.Fatal().Err(err).Str("token", logging.Redact(cfg.Bot.Token, cfg.Runtime.Dev)).Msg("telegram")
		}
	}

	// ---- Store probe ----
	if cfg.Mongo.HealthInterval > 0 {
		probe := sched.NewStoreProbe(cfg.Mongo.HealthInterval, stockRepo, logger)
		go func() { _ = probe.Run(ctx) }()
	}

	// ---- Admin HTTP ----
	var srv *httpapi.Server
	if cfg.Admin.Port > 0 {
		srv = httpapi.NewServer(cfg.Admin.Port, stockRepo, nil, logger)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error().Err(err).Msg("admin http server")
			}
		}()
	}

	logger.Info().Str("version", version).Str("lang", tr.Lang()).Msg("bot is running")
	if err := botAdapter.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("polling stopped")
	}

	// ---- Graceful shutdown ----
	logger.Info().Msg("shutdown requested")
	botAdapter.StopPolling()
	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn().Err(err).Msg("admin http shutdown")
		}
	}
}
