// File: internal/infra/telegram/bot.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/annuu1/StockAlertBot/internal/config"
	"github.com/annuu1/StockAlertBot/internal/domain"
	"github.com/annuu1/StockAlertBot/internal/domain/ports/repository"
	"github.com/annuu1/StockAlertBot/internal/usecase"
)

// SweepDispatcher is the minimal interface the bot needs to trigger a sweep
// on demand (the /sweep command).
type SweepDispatcher interface {
	Dispatch(ctx context.Context, reason string) (*usecase.SweepSummary, error)
}

// Client is the slice of the Bot API the command bot uses.
// *tgbotapi.BotAPI satisfies it; tests substitute a mock.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot handles interactive commands over long polling with concurrent update
// workers.
type Bot struct {
	bot         Client
	cfg         *config.BotConfig
	zones       repository.ZoneRepository
	trades      repository.TradeRepository
	stats       usecase.StatsUseCase
	dispatcher  SweepDispatcher
	adminIDsMap map[int64]struct{}
	log         *zerolog.Logger

	// updateWorkers is how many goroutines will concurrently process updates.
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewBot(
	api Client,
	cfg *config.BotConfig,
	zones repository.ZoneRepository,
	trades repository.TradeRepository,
	stats usecase.StatsUseCase,
	dispatcher SweepDispatcher,
	logger *zerolog.Logger,
) (*Bot, error) {
	if api == nil {
		return nil, errors.New("bot api is nil")
	}
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if zones == nil || trades == nil {
		return nil, errors.New("repositories are nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	adminMap := make(map[int64]struct{}, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	compLog := logger.With().Str("component", "TelegramBot").Logger()
	return &Bot{
		bot:           api,
		cfg:           cfg,
		zones:         zones,
		trades:        trades,
		stats:         stats,
		dispatcher:    dispatcher,
		adminIDsMap:   adminMap,
		log:           &compLog,
		updateWorkers: workers,
	}, nil
}

// StartPolling begins polling Telegram for updates concurrently.
// It runs until ctx is canceled.
func (b *Bot) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < b.updateWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					if err := b.handleUpdate(ctx, update); err != nil {
						b.log.Error().Err(err).Int("worker", workerID).Msg("error handling update")
					}
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	// Dispatcher goroutine: feed updates into updateChan
	go func() {
		defer close(updateChan)
		for {
			select {
			case update := <-updates:
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	b.bot.StopReceivingUpdates()
	wg.Wait()
	return nil
}

// StopPolling stops the polling loop gracefully.
func (b *Bot) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || update.Message.From == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if len(text) == 0 || text[0] != '/' {
		return b.reply(chatID, "Send /help for the list of commands.")
	}
	return b.handleCommand(ctx, chatID, update.Message.From.ID, text)
}

func (b *Bot) handleCommand(ctx context.Context, chatID, fromID int64, text string) error {
	cmd := strings.Fields(text)[0]
	switch cmd {
	case "/start":
		return b.reply(chatID, "Stock alert bot is watching your zones and trades. Use /help to see commands.")
	case "/help":
		return b.reply(chatID, "Available commands:\n/zones — fresh demand zones\n/trades — open trades\n/stats — counts (admin)\n/sweep — run an alert sweep now (admin)")
	case "/zones":
		return b.handleZones(ctx, chatID)
	case "/trades":
		return b.handleTrades(ctx, chatID)
	case "/stats":
		if !b.isAdmin(fromID) {
			return b.reply(chatID, "You are not authorized to use this command.")
		}
		return b.handleStats(ctx, chatID)
	case "/sweep":
		if !b.isAdmin(fromID) {
			return b.reply(chatID, "You are not authorized to use this command.")
		}
		return b.handleSweep(ctx, chatID)
	default:
		return b.reply(chatID, "Unknown command. Send /help for the list of commands.")
	}
}

func (b *Bot) handleZones(ctx context.Context, chatID int64) error {
	zones, err := b.zones.FindFresh(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list zones failed")
		return b.reply(chatID, "Failed to load zones. Try again later.")
	}
	if len(zones) == 0 {
		return b.reply(chatID, "No fresh zones.")
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fresh zones (%d):\n", len(zones)))
	for _, z := range zones {
		sb.WriteString(fmt.Sprintf("• *%s* `%s` proximal ₹%.2f distal ₹%.2f\n",
			z.Ticker, z.ZoneID, z.ProximalLine, z.DistalLine))
	}
	return b.replyMarkdown(chatID, sb.String())
}

func (b *Bot) handleTrades(ctx context.Context, chatID int64) error {
	trades, err := b.trades.FindOpen(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list trades failed")
		return b.reply(chatID, "Failed to load trades. Try again later.")
	}
	if len(trades) == 0 {
		return b.reply(chatID, "No open trades.")
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Open trades (%d):\n", len(trades)))
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("• *%s* entry ₹%.2f\n", t.Symbol, t.EntryPrice))
	}
	return b.replyMarkdown(chatID, sb.String())
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) error {
	if b.stats == nil {
		return b.reply(chatID, "Stats feature not available.")
	}
	snap, err := b.stats.Snapshot(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("stats failed")
		return b.reply(chatID, "Failed to get stats. Please try again later.")
	}
	return b.reply(chatID, fmt.Sprintf("Fresh zones: %d\nOpen trades: %d\nIlliquid instruments: %d",
		snap.FreshZones, snap.OpenTrades, snap.IlliquidInstruments))
}

func (b *Bot) handleSweep(ctx context.Context, chatID int64) error {
	if b.dispatcher == nil {
		return b.reply(chatID, "Manual sweep not available.")
	}
	sum, err := b.dispatcher.Dispatch(ctx, "telegram")
	if err != nil {
		if errors.Is(err, domain.ErrSweepInProgress) {
			return b.reply(chatID, "A sweep is already running.")
		}
		b.log.Error().Err(err).Msg("manual sweep failed")
		return b.reply(chatID, "Sweep failed. Check the logs.")
	}
	return b.reply(chatID, formatSweepSummary(sum))
}

func formatSweepSummary(sum *usecase.SweepSummary) string {
	return fmt.Sprintf("Sweep done: %d zones, %d trades, %d symbols, %d alerts sent, %d skipped.",
		sum.Zones, sum.Trades, sum.Symbols, sum.AlertsSent, sum.Skipped)
}

func (b *Bot) reply(chatID int64, text string) error {
	_, err := b.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) replyMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := b.bot.Send(msg)
	return err
}

func (b *Bot) isAdmin(tgID int64) bool {
	_, ok := b.adminIDsMap[tgID]
	return ok
}
