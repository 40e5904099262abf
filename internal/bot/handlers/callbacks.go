package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ozodbek/kinokodbot/internal/session"
)

// callbackChat extracts the chat and message the callback button lives on.
func callbackChat(cb *models.CallbackQuery) (chatID int64, messageID int, ok bool) {
	if cb.Message.Message != nil {
		return cb.Message.Message.Chat.ID, cb.Message.Message.ID, true
	}
	if cb.Message.InaccessibleMessage != nil {
		return cb.Message.InaccessibleMessage.Chat.ID, cb.Message.InaccessibleMessage.MessageID, true
	}
	return 0, 0, false
}

func (r router) answerCallback(ctx context.Context, cb *models.CallbackQuery, text string, alert bool) {
	_, err := r.deps.TG.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: cb.ID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		r.deps.Logger.ErrorContext(ctx, "Failed to answer callback query", "callback_id", cb.ID, "error", err)
	}
}

// NewSubConfirmHandler handles the gate prompt's confirm button. A passing
// re-check removes the prompt; a failing one alerts without state change.
func NewSubConfirmHandler(deps *Deps) tgbot.HandlerFunc {
	r := router{deps}
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}
		msgs := &deps.Config.Messages

		if !deps.Gate.Satisfied(ctx, cb.From.ID) {
			r.answerCallback(ctx, cb, msgs.SubNotYet, true)
			return
		}

		r.answerCallback(ctx, cb, "", false)
		if chatID, messageID, ok := callbackChat(cb); ok {
			if _, err := deps.TG.DeleteMessage(ctx, &tgbot.DeleteMessageParams{
				ChatID:    chatID,
				MessageID: messageID,
			}); err != nil {
				deps.Logger.WarnContext(ctx, "Failed to delete gate prompt", "chat_id", chatID, "error", err)
			}
			r.sendText(ctx, chatID, msgs.SubConfirmed, nil)
		}
	}
}

// NewAddChannelHandler enters the channel-registration workflow.
func NewAddChannelHandler(deps *Deps) tgbot.HandlerFunc {
	r := router{deps}
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		deps.Sessions.Set(cb.From.ID, session.Session{Step: session.StepAddChannelID})
		r.answerCallback(ctx, cb, "", false)
		if chatID, _, ok := callbackChat(cb); ok {
			r.sendText(ctx, chatID, deps.Config.Messages.AskChannelID, cancelKeyboard())
		}
	}
}

// NewDeleteMenuHandler replaces the channel list with a deletable list.
func NewDeleteMenuHandler(deps *Deps) tgbot.HandlerFunc {
	r := router{deps}
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}
		log := deps.Logger.With("handler", "delete_menu")

		channels, err := deps.Store.ListChannels(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to list channels", "error", err)
			r.answerCallback(ctx, cb, deps.Config.Messages.SaveError, true)
			return
		}

		keyboard := make([][]models.InlineKeyboardButton, 0, len(channels)+1)
		for _, ch := range channels {
			keyboard = append(keyboard, []models.InlineKeyboardButton{
				{Text: "🗑 " + ch.Name, CallbackData: fmt.Sprintf("%s%d", cbDeletePrefix, ch.ID)},
			})
		}
		keyboard = append(keyboard, []models.InlineKeyboardButton{
			{Text: "🔙 Bekor qilish", CallbackData: cbCancelDelete},
		})

		r.answerCallback(ctx, cb, "", false)
		if chatID, messageID, ok := callbackChat(cb); ok {
			_, err := deps.TG.EditMessageText(ctx, &tgbot.EditMessageTextParams{
				ChatID:      chatID,
				MessageID:   messageID,
				Text:        deps.Config.Messages.ChooseDelete,
				ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: keyboard},
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to edit channel list", "chat_id", chatID, "error", err)
			}
		}
	}
}

// NewDeleteChannelHandler removes the chosen gate channel.
func NewDeleteChannelHandler(deps *Deps) tgbot.HandlerFunc {
	r := router{deps}
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}
		log := deps.Logger.With("handler", "delete_channel")

		id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, cbDeletePrefix), 10, 64)
		if err != nil {
			log.WarnContext(ctx, "Malformed delete callback", "data", cb.Data)
			r.answerCallback(ctx, cb, "", false)
			return
		}

		if err := deps.Store.DeleteChannel(ctx, id); err != nil {
			log.ErrorContext(ctx, "Failed to delete channel", "id", id, "error", err)
			r.answerCallback(ctx, cb, deps.Config.Messages.SaveError, true)
			return
		}

		r.answerCallback(ctx, cb, "", false)
		if chatID, _, ok := callbackChat(cb); ok {
			r.sendText(ctx, chatID, deps.Config.Messages.ChannelDeleted, nil)
		}
	}
}

// NewCancelDeleteHandler dismisses the deletable list.
func NewCancelDeleteHandler(deps *Deps) tgbot.HandlerFunc {
	r := router{deps}
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		r.answerCallback(ctx, cb, "", false)
		if chatID, messageID, ok := callbackChat(cb); ok {
			if _, err := deps.TG.DeleteMessage(ctx, &tgbot.DeleteMessageParams{
				ChatID:    chatID,
				MessageID: messageID,
			}); err != nil {
				deps.Logger.WarnContext(ctx, "Failed to delete menu message", "chat_id", chatID, "error", err)
			}
		}
	}
}
