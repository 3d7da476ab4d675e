package telegram

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"stock-lookup-bot/internal/application"
	"stock-lookup-bot/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev runs without a token.
// Each line read from in is treated as a chat message; replies are logged instead of sent.
type NoopBotAdapter struct {
	facade *application.BotFacade
	in     io.Reader
	log    *zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewNoopBotAdapter(facade *application.BotFacade, in io.Reader, logger *zerolog.Logger) *NoopBotAdapter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &NoopBotAdapter{facade: facade, in: in, log: logger}
}

// SendReply logs the reply.
func (b *NoopBotAdapter) SendReply(ctx context.Context, reply adapter.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.log.Info().
		Int64("chat_id", reply.ChatID).
		Int("reply_to", reply.ReplyToMessageID).
		Str("text", reply.Text).
		Msg("[noop-telegram] reply")
	return nil
}

// StartPolling answers lines from the reader until it is exhausted or ctx is done.
// With a nil reader it just waits for ctx.
func (b *NoopBotAdapter) StartPolling(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()
	defer cancel()

	if b.in == nil || b.facade == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	// Closing the reader unblocks the scanner goroutine on shutdown. A reader
	// without Close keeps it parked in Scan until the next line arrives.
	defer func() {
		if c, ok := b.in.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(b.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	msgID := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			msgID++
			text := b.reply(ctx, line)
			if err := b.SendReply(ctx, adapter.Reply{ReplyToMessageID: msgID, Text: text}); err != nil {
				return err
			}
		}
	}
}

func (b *NoopBotAdapter) reply(ctx context.Context, line string) string {
	switch strings.TrimSpace(line) {
	case "/start", "/help":
		return b.facade.HandleHelp(ctx)
	default:
		return b.facade.HandleText(ctx, line)
	}
}

func (b *NoopBotAdapter) StopPolling() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	}
}
