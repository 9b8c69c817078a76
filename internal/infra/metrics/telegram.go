package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(telegramSendsTotal) }

var telegramSendsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "telegram_sends_total",
		Help: "Telegram sendMessage calls by status (ok/error).",
	},
	[]string{"status"},
)

func IncTelegramSend(status string) {
	telegramSendsTotal.WithLabelValues(norm(status)).Inc()
}
