package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminCallbackOnly creates a middleware that drops callback queries from
// anyone but the configured admin. Admin-only actions re-check the sender
// here rather than trusting the button's placement.
func AdminCallbackOnly(deps *Deps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			cb := update.CallbackQuery
			if cb == nil {
				return
			}

			if cb.From.ID != deps.Config.Telegram.AdminID {
				log := deps.Logger.With("middleware", "admin_callback_only")
				log.WarnContext(ctx, "Unauthorized callback attempt", "user_id", cb.From.ID, "data", cb.Data)

				_, err := deps.TG.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
					CallbackQueryID: cb.ID,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to answer unauthorized callback", "error", err)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
