package adapter

import "context"

// Notifier delivers alert messages to the configured chat.
// Text is Telegram Markdown.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
