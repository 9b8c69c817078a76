// File: internal/infra/telegram/notifier.go
package telegram

import (
	"context"
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain/ports/adapter"
	"github.com/annuu1/StockAlertBot/internal/infra/metrics"

	"github.com/avast/retry-go/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Notifier pushes alert messages to the configured chat. It is one-way: the
// interactive command surface lives in Bot.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zerolog.Logger
}

var _ adapter.Notifier = (*Notifier)(nil)

func NewNotifier(bot *tgbotapi.BotAPI, chatID int64, logger *zerolog.Logger) *Notifier {
	compLog := logger.With().Str("component", "TelegramNotifier").Logger()
	return &Notifier{bot: bot, chatID: chatID, log: &compLog}
}

// Send delivers text as Telegram Markdown. Transient failures are retried;
// the caller treats a final error as "not sent" and retries on its next
// sweep.
func (n *Notifier) Send(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	err := retry.Do(
		func() error {
			_, err := n.bot.Send(msg)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			n.log.Warn().Err(err).Uint("attempt", attempt).Msg("telegram send retry")
		}),
	)
	if err != nil {
		metrics.IncTelegramSend("error")
		return err
	}
	metrics.IncTelegramSend("ok")
	return nil
}
