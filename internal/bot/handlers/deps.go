// Package handlers contains the Telegram update router, the admin workflow
// engine, the end-user retrieval flow, and the callback-query handlers.
package handlers

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ozodbek/kinokodbot/internal/broadcast"
	"github.com/ozodbek/kinokodbot/internal/config"
	"github.com/ozodbek/kinokodbot/internal/database"
	"github.com/ozodbek/kinokodbot/internal/gate"
	"github.com/ozodbek/kinokodbot/internal/session"
)

// TelegramAPI is the slice of the bot API the handlers use. *bot.Bot
// satisfies it; tests substitute a fake.
type TelegramAPI interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	SendVideo(ctx context.Context, params *tgbot.SendVideoParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *tgbot.EditMessageTextParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *tgbot.DeleteMessageParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *tgbot.AnswerCallbackQueryParams) (bool, error)
}

// Deps provides dependencies for all handlers. TG, Gate, and Broadcaster are
// filled in after the bot instance exists; handlers read them at call time.
type Deps struct {
	Logger      *slog.Logger
	Config      *config.Config
	Store       database.Store
	Sessions    *session.Tracker
	Gate        *gate.Gate
	Broadcaster *broadcast.Broadcaster
	TG          TelegramAPI
}
