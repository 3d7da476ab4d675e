package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stock-lookup-bot/internal/domain/model"
	"stock-lookup-bot/internal/infra/i18n"
	"stock-lookup-bot/internal/infra/logging"
	"stock-lookup-bot/internal/infra/metrics"
	"stock-lookup-bot/internal/usecase"
)

// BotFacade turns one inbound text into exactly one reply text.
// Keep the facade methods returning strings so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	StockUC StockUseCaseIface
	tr      Translator
	log     *zerolog.Logger
}

func NewBotFacade(stockUC StockUseCaseIface, tr Translator, logger *zerolog.Logger) *BotFacade {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &BotFacade{StockUC: stockUC, tr: tr, log: logger}
}

// HandleHelp returns the static usage text. It never touches the store.
func (b *BotFacade) HandleHelp(ctx context.Context) string {
	return b.tr.T(i18n.KeyHelp)
}

func (b *BotFacade) HandleRateLimited(ctx context.Context) string {
	logging.With(ctx, b.log).Warn().Msg("rate limit exceeded")
	return b.tr.T(i18n.KeyRateLimited)
}

// HandleText validates text as a product code, looks up its stock and renders the reply.
func (b *BotFacade) HandleText(ctx context.Context, text string) string {
	log := logging.With(ctx, b.log)
	text = strings.TrimSpace(text)
	log.Info().Str("text", text).Msg("received product code")

	code, err := model.ParseProductCode(text)
	if err != nil {
		var fe *model.InvalidFormatError
		if errors.As(err, &fe) {
			log.Debug().Str("text", fe.Text).Msg("rejected product code")
		}
		metrics.IncInvalidInput()
		return b.tr.T(i18n.KeyInvalidFormat)
	}

	start := time.Now()
	res := b.StockUC.LookupStock(ctx, code)
	metrics.ObserveLookup(res.Status.String(), time.Since(start))

	switch res.Status {
	case usecase.LookupFound:
		log.Info().
			Str("product_code", code.String()).
			Int("warehouses", len(res.Summary.Rows)).
			Int64("total_qty", res.Summary.TotalQty()).
			Msg("sending stock summary")
		return usecase.FormatSummary(code, *res.Summary)
	case usecase.LookupNotFound:
		return b.tr.T(i18n.KeyNotFound, code.String())
	default:
		log.Error().Err(res.Err).Str("product_code", code.String()).Msg("stock lookup failed")
		return b.tr.T(i18n.KeyErrorGeneric)
	}
}
