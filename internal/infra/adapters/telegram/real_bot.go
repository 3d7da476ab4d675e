package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stock-lookup-bot/internal/application"
	"stock-lookup-bot/internal/config"
	"stock-lookup-bot/internal/domain/ports/adapter"
	"stock-lookup-bot/internal/infra/logging"
	"stock-lookup-bot/internal/infra/metrics"
	red "stock-lookup-bot/internal/infra/redis"
	"stock-lookup-bot/internal/infra/worker"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// botAPI is the subset of *tgbotapi.BotAPI the adapter uses.
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	StopReceivingUpdates()
}

// RateLimiter is satisfied by *redis.RateLimiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RealTelegramBotAdapter long-polls updates and hands each one to the facade.
type RealTelegramBotAdapter struct {
	bot         botAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter RateLimiter
	pool        *worker.Pool
	log         *zerolog.Logger

	mu            sync.Mutex
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter RateLimiter, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("username", bot.Self.UserName).Msg("authorized on telegram")
	return newAdapter(bot, cfg, facade, rateLimiter, logger)
}

func newAdapter(bot botAPI, cfg *config.BotConfig, facade *application.BotFacade, rateLimiter RateLimiter, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RealTelegramBotAdapter{
		bot:         bot,
		cfg:         cfg,
		facade:      facade,
		rateLimiter: rateLimiter,
		pool:        worker.NewPool(cfg.Workers, logger),
		log:         logger,
	}, nil
}

// StartPolling blocks until ctx is cancelled or StopPolling is called.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	if r.cfg.RemoveWebhook {
		if _, err := r.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			r.log.Error().Err(err).Msg("failed to remove webhook")
		} else {
			r.log.Info().Msg("webhook removed successfully")
		}
	}
	if err := r.setMenuCommands(); err != nil {
		r.log.Warn().Err(err).Msg("failed to set menu commands")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = r.cfg.PollTimeout
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancelPolling = cancel
	r.mu.Unlock()
	defer cancel()

	r.pool.Start(ctx)
	defer r.pool.Stop()
	r.log.Info().Int("workers", r.cfg.Workers).Msg("starting bot polling")

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			if err := r.pool.SubmitWait(ctx, func(ctx context.Context) error {
				return r.handleUpdate(ctx, up)
			}); err != nil && !errors.Is(err, context.Canceled) {
				r.log.Error().Err(err).Int("update_id", up.UpdateID).Msg("failed to dispatch update")
			}
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendReply sends text as a reply to the originating message.
func (r *RealTelegramBotAdapter) SendReply(ctx context.Context, reply adapter.Reply) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ReplyToMessageID = reply.ReplyToMessageID
	_, err := r.bot.Send(msg)
	metrics.IncReply(err == nil)
	return err
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	message := update.Message
	if message == nil || message.Chat == nil {
		return nil
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithChatID(ctx, message.Chat.ID)
	if message.From != nil {
		ctx = logging.WithTgID(ctx, message.From.ID)
	}
	log := logging.With(ctx, r.log)

	// Only text messages are answered.
	if strings.TrimSpace(message.Text) == "" {
		log.Debug().Msg("ignoring non-text message")
		return nil
	}

	var handler commandHandler
	command := "message"
	if message.IsCommand() {
		command = "other"
		if h, ok := r.commandRoutes()[message.Command()]; ok {
			handler = h
			command = "/" + message.Command()
		}
	}
	metrics.IncTelegramUpdate(command)

	// Routed commands never touch the store and are not rate limited.
	if handler != nil {
		return handler(ctx, message)
	}

	if r.rateLimiter != nil && message.From != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserKey(message.From.ID))
		if err != nil {
			log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			return r.reply(ctx, message, r.facade.HandleRateLimited(ctx))
		}
	}

	return r.reply(ctx, message, r.facade.HandleText(ctx, message.Text))
}

func (r *RealTelegramBotAdapter) reply(ctx context.Context, message *tgbotapi.Message, text string) error {
	err := r.SendReply(ctx, adapter.Reply{
		ChatID:           message.Chat.ID,
		ReplyToMessageID: message.MessageID,
		Text:             text,
	})
	if err != nil {
		return err
	}
	logging.With(ctx, r.log).Info().Msg("sent response")
	return nil
}
