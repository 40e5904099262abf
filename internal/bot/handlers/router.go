package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewRouter returns the default handler that every non-callback update passes
// through. Dispatch order: best-effort user upsert, then admin session or
// command handling for the admin sender, then the gated end-user flow.
func NewRouter(deps *Deps) tgbot.HandlerFunc {
	r := router{deps}
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		r.Handle(ctx, update)
	}
}

type router struct {
	deps *Deps
}

func (r router) Handle(ctx context.Context, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	m := update.Message
	log := r.deps.Logger.With("handler", "router")

	// Best-effort: a failed upsert must not block the rest of the dispatch.
	if err := r.deps.Store.UpsertUser(ctx, m.From.ID, m.From.FirstName); err != nil {
		log.WarnContext(ctx, "Failed to upsert user", "user_id", m.From.ID, "error", err)
	}

	if m.From.ID == r.deps.Config.Telegram.AdminID {
		if r.handleAdmin(ctx, m) {
			return
		}
	}

	r.handleUser(ctx, m)
}

func (r router) sendText(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := r.deps.TG.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		r.deps.Logger.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}
