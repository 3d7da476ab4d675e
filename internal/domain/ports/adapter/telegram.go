// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

// Reply addresses an outbound message to the chat and message it answers.
type Reply struct {
	ChatID           int64
	ReplyToMessageID int
	Text             string
}

type TelegramBotAdapter interface {
	SendReply(ctx context.Context, reply Reply) error
	StartPolling(ctx context.Context) error
	StopPolling()
}
