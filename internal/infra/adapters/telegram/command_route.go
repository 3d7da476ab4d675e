package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes maps command names to handlers. Any other command is treated
// as free text and answered by the product code flow.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleHelpCommand,
		"help":  r.handleHelpCommand,
	}
}

// handleHelpCommand answers /start and /help with the static usage text.
func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.reply(ctx, message, r.facade.HandleHelp(ctx))
}

// setMenuCommands publishes the command list shown in the Telegram client menu.
func (r *RealTelegramBotAdapter) setMenuCommands() error {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "How to look up a product"},
		tgbotapi.BotCommand{Command: "help", Description: "How to look up a product"},
	)
	_, err := r.bot.Request(cmds)
	return err
}
