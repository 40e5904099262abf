// Package gate evaluates whether a user satisfies the configured
// channel-subscription requirements before using retrieval features.
package gate

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ozodbek/kinokodbot/internal/database"
)

// ConfirmCallback is the callback data of the gate prompt's confirm button.
const ConfirmCallback = "check_sub"

// ChannelLister provides the current gate-channel list.
type ChannelLister interface {
	ListChannels(ctx context.Context) ([]database.Channel, error)
}

// MemberChecker looks up a user's membership status in a channel.
type MemberChecker interface {
	GetChatMember(ctx context.Context, params *tgbot.GetChatMemberParams) (*models.ChatMember, error)
}

// Gate checks subscription requirements against the live channel list.
type Gate struct {
	store   ChannelLister
	tg      MemberChecker
	adminID int64
	logger  *slog.Logger
}

// New creates a Gate.
func New(store ChannelLister, tg MemberChecker, adminID int64, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		store:   store,
		tg:      tg,
		adminID: adminID,
		logger:  logger.With("component", "gate"),
	}
}

// Satisfied reports whether userID currently passes every configured channel
// requirement. The admin always passes, and so does everyone when no channels
// are configured. Membership lookups that fail are skipped rather than
// blocking the user: a misconfigured channel must not lock everyone out.
func (g *Gate) Satisfied(ctx context.Context, userID int64) bool {
	if userID == g.adminID {
		return true
	}

	channels, err := g.store.ListChannels(ctx)
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to list gate channels, letting user through", "user_id", userID, "error", err)
		return true
	}

	for _, ch := range channels {
		member, err := g.tg.GetChatMember(ctx, &tgbot.GetChatMemberParams{
			ChatID: ch.ChannelID,
			UserID: userID,
		})
		if err != nil {
			g.logger.WarnContext(ctx, "Membership check failed, skipping channel",
				"channel_id", ch.ChannelID, "channel_name", ch.Name, "user_id", userID, "error", err)
			continue
		}
		if member.Type == models.ChatMemberTypeLeft || member.Type == models.ChatMemberTypeBanned {
			return false
		}
	}

	return true
}

// Prompt builds the subscription prompt keyboard from the current channel
// list. It is rebuilt on every call so channel edits take effect immediately.
func (g *Gate) Prompt(ctx context.Context) (*models.InlineKeyboardMarkup, error) {
	channels, err := g.store.ListChannels(ctx)
	if err != nil {
		return nil, err
	}

	keyboard := make([][]models.InlineKeyboardButton, 0, len(channels)+1)
	for _, ch := range channels {
		keyboard = append(keyboard, []models.InlineKeyboardButton{
			{Text: "➕ " + ch.Name, URL: ch.Link},
		})
	}
	keyboard = append(keyboard, []models.InlineKeyboardButton{
		{Text: "✅ Tasdiqlash", CallbackData: ConfirmCallback},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}, nil
}
