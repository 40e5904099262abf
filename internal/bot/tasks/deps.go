// Package tasks implements the bot's scheduled tasks and their registry.
package tasks

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/ozodbek/kinokodbot/internal/config"
	"github.com/ozodbek/kinokodbot/internal/database"
)

// BioSetter updates the bot's public short description. *bot.Bot satisfies
// it; tests substitute a fake.
type BioSetter interface {
	SetMyShortDescription(ctx context.Context, params *tgbot.SetMyShortDescriptionParams) (bool, error)
}

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
	TG     BioSetter
}
