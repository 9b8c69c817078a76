// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/annuu1/StockAlertBot/internal/config"
	mongodb "github.com/annuu1/StockAlertBot/internal/infra/db/mongo"
	"github.com/annuu1/StockAlertBot/internal/infra/logging"
	"github.com/annuu1/StockAlertBot/internal/infra/market"
	"github.com/annuu1/StockAlertBot/internal/infra/metrics"
	red "github.com/annuu1/StockAlertBot/internal/infra/redis"
	"github.com/annuu1/StockAlertBot/internal/infra/sched"
	tele "github.com/annuu1/StockAlertBot/internal/infra/telegram"
	"github.com/annuu1/StockAlertBot/internal/infra/web"
	"github.com/annuu1/StockAlertBot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- MongoDB ----
	db, disconnect, err := mongodb.Connect(ctx, cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo")
	}
	defer func() { _ = disconnect(context.Background()) }()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	quoteCache := red.NewQuoteCache(redisClient, cfg.Redis.QuoteTTL)
	checkpoints := red.NewCheckpointStore(redisClient)

	// ---- Repositories ----
	zoneRepo := mongodb.NewZoneRepo(db)
	tradeRepo := mongodb.NewTradeRepo(db)
	instrRepo := mongodb.NewInstrumentRepo(db)

	// ---- Market data ----
	marketData := market.NewYahooAdapter(&cfg.Market, quoteCache, logger)

	// ---- Telegram ----
	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	notifier := tele.NewNotifier(botAPI, cfg.Bot.ChatID, logger)

	// ---- Market clock ----
	clock, err := sched.NewMarketClock(cfg.Scheduler.MarketTZ)
	if err != nil {
		logger.Fatal().Err(err).Msg("market timezone")
	}
	closeH, closeM, err := parseClockTime(cfg.Market.SessionCloseAt)
	if err != nil {
		logger.Fatal().Err(err).Str("value", cfg.Market.SessionCloseAt).Msg("market.session_close_at")
	}

	// ---- Use cases ----
	sweepUC := usecase.NewSweepUseCase(zoneRepo, tradeRepo, marketData, notifier, usecase.SweepOptions{
		DefaultSuffix: cfg.Market.DefaultSuffix,
		ZoneApproach:  cfg.Market.ApproachZone,
		TradeApproach: cfg.Market.ApproachTrade,
		MarketTZ:      clock.Location(),
		CloseHour:     closeH,
		CloseMinute:   closeM,
	}, logger)
	screenerUC := usecase.NewScreenerUseCase(instrRepo, checkpoints, marketData, cfg.Market.DefaultSuffix, logger)
	statsUC := usecase.NewStatsUseCase(zoneRepo, tradeRepo, instrRepo, logger)

	// ---- Workers ----
	sweepWorker := sched.NewSweepWorker(
		sched.NewCronSet(cfg.Scheduler.SweepCrons...),
		clock,
		sweepUC,
		locker,
		cfg.Scheduler.LockTTL,
		cfg.Scheduler.SweepTimeout,
		cfg.Scheduler.SkipOffMarket,
		logger,
	)
	go func() { _ = sweepWorker.Run(ctx) }()

	screenerWorker := sched.NewScreenerWorker(
		sched.NewCronSet(cfg.Scheduler.ScreenerCron),
		screenerUC,
		locker,
		logger,
	)
	go func() { _ = screenerWorker.Run(ctx) }()

	// ---- Telegram command bot ----
	bot, err := tele.NewBot(botAPI, &cfg.Bot, zoneRepo, tradeRepo, statsUC, sweepWorker, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram bot")
	}
	go func() {
		if err := bot.StartPolling(ctx); err != nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- HTTP server (health, metrics, admin API) ----
	srv := web.NewServer(zoneRepo, tradeRepo, statsUC, sweepWorker, cfg.Admin.APIKey, logger)
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: mux}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}

// parseClockTime parses "HH:MM".
func parseClockTime(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("bad hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("bad minute in %q", s)
	}
	return h, m, nil
}
