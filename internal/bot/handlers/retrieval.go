package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ozodbek/kinokodbot/internal/database"
)

// handleUser runs the gated end-user flow: subscription check, greeting, and
// code lookup with delivery.
func (r router) handleUser(ctx context.Context, m *models.Message) {
	msgs := &r.deps.Config.Messages
	log := r.deps.Logger.With("handler", "retrieval")

	if !r.deps.Gate.Satisfied(ctx, m.From.ID) {
		keyboard, err := r.deps.Gate.Prompt(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to build gate prompt", "user_id", m.From.ID, "error", err)
			return
		}
		r.sendText(ctx, m.Chat.ID, msgs.SubRequired, keyboard)
		return
	}

	text := strings.TrimSpace(m.Text)
	if text == "/start" {
		r.sendText(ctx, m.Chat.ID, fmt.Sprintf(msgs.UserWelcome, m.From.FirstName), nil)
		return
	}
	if text == "" {
		return
	}

	movie, err := r.deps.Store.GetMovieByCode(ctx, text)
	switch {
	case errors.Is(err, database.ErrNotFound):
		r.sendText(ctx, m.Chat.ID, msgs.CodeNotFound, nil)
		return
	case err != nil:
		log.ErrorContext(ctx, "Failed to look up code", "code", text, "error", err)
		r.sendText(ctx, m.Chat.ID, msgs.DeliveryError, nil)
		return
	}

	caption := fmt.Sprintf(msgs.MovieCaption,
		movie.Caption, movie.Views+1, r.deps.Config.Telegram.BotUsername)

	_, err = r.deps.TG.SendVideo(ctx, &tgbot.SendVideoParams{
		ChatID:    m.Chat.ID,
		Video:     &models.InputFileString{Data: movie.FileID},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		// The file reference may have expired; the counter stays untouched.
		log.ErrorContext(ctx, "Failed to deliver movie", "code", movie.Code, "error", err)
		r.sendText(ctx, m.Chat.ID, msgs.DeliveryError, nil)
		return
	}

	if _, err := r.deps.Store.IncrementViews(ctx, movie.ID); err != nil {
		// The user already saw views+1; storage kept the old value.
		log.ErrorContext(ctx, "Failed to increment view counter", "code", movie.Code, "error", err)
	}
}
