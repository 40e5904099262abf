package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ozodbek/kinokodbot/internal/database"
	"github.com/ozodbek/kinokodbot/internal/session"
)

// handleAdmin processes a message from the administrator. It returns false
// when the message is neither workflow input nor a recognized command, in
// which case the router falls through to the ordinary user flow.
func (r router) handleAdmin(ctx context.Context, m *models.Message) bool {
	adminID := m.From.ID
	msgs := &r.deps.Config.Messages
	log := r.deps.Logger.With("handler", "admin")

	sess, open := r.deps.Sessions.Get(adminID)

	if m.Text == BtnCancel || m.Text == "/cancel" {
		if !open {
			return true
		}
		r.deps.Sessions.Clear(adminID)
		r.sendText(ctx, m.Chat.ID, msgs.Cancelled, adminKeyboard())
		return true
	}

	if open {
		r.handleAdminStep(ctx, m, sess)
		return true
	}

	switch m.Text {
	case "/start", "/panel":
		r.sendText(ctx, m.Chat.ID, msgs.AdminWelcome, adminKeyboard())
	case BtnUpload:
		r.deps.Sessions.Set(adminID, session.Session{Step: session.StepAwaitVideo})
		r.sendText(ctx, m.Chat.ID, msgs.AskVideo, cancelKeyboard())
	case BtnBroadcast:
		r.deps.Sessions.Set(adminID, session.Session{Step: session.StepBroadcast})
		r.sendText(ctx, m.Chat.ID, msgs.AskBroadcast, cancelKeyboard())
	case BtnStats:
		users, err := r.deps.Store.CountUsers(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to count users", "error", err)
			r.sendText(ctx, m.Chat.ID, msgs.SaveError, nil)
			return true
		}
		movies, err := r.deps.Store.CountMovies(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to count movies", "error", err)
			r.sendText(ctx, m.Chat.ID, msgs.SaveError, nil)
			return true
		}
		r.sendText(ctx, m.Chat.ID, fmt.Sprintf(msgs.Stats, users, movies), nil)
	case BtnChannels:
		r.sendChannelList(ctx, m.Chat.ID)
	default:
		return false
	}
	return true
}

// handleAdminStep feeds the message into the open workflow session.
func (r router) handleAdminStep(ctx context.Context, m *models.Message, sess session.Session) {
	adminID := m.From.ID
	msgs := &r.deps.Config.Messages
	log := r.deps.Logger.With("handler", "admin_workflow", "step", sess.Step)

	switch sess.Step {
	case session.StepAwaitVideo:
		if m.Video == nil {
			r.sendText(ctx, m.Chat.ID, msgs.NotVideo, nil)
			return
		}
		caption := m.Caption
		if caption == "" {
			caption = "Kino"
		}
		r.deps.Sessions.Set(adminID, session.Session{
			Step:    session.StepAwaitCode,
			FileID:  m.Video.FileID,
			Caption: caption,
		})
		r.sendText(ctx, m.Chat.ID, msgs.VideoAccepted, cancelKeyboard())

	case session.StepAwaitCode:
		r.finishUpload(ctx, m, sess)

	case session.StepAddChannelID:
		if m.Text == "" {
			return
		}
		r.deps.Sessions.Set(adminID, session.Session{
			Step:      session.StepAddChannelLink,
			ChannelID: strings.TrimSpace(m.Text),
		})
		r.sendText(ctx, m.Chat.ID, msgs.AskChannelLink, nil)

	case session.StepAddChannelLink:
		if m.Text == "" {
			return
		}
		r.deps.Sessions.Set(adminID, session.Session{
			Step:        session.StepAddChannelName,
			ChannelID:   sess.ChannelID,
			ChannelLink: strings.TrimSpace(m.Text),
		})
		r.sendText(ctx, m.Chat.ID, msgs.AskChannelName, nil)

	case session.StepAddChannelName:
		if m.Text == "" {
			return
		}
		if err := r.deps.Store.AddChannel(ctx, sess.ChannelID, m.Text, sess.ChannelLink); err != nil {
			log.ErrorContext(ctx, "Failed to add channel", "channel_id", sess.ChannelID, "error", err)
			r.sendText(ctx, m.Chat.ID, msgs.SaveError, nil)
			return
		}
		r.deps.Sessions.Clear(adminID)
		r.sendText(ctx, m.Chat.ID, msgs.ChannelAdded, adminKeyboard())

	case session.StepBroadcast:
		r.startBroadcast(ctx, m)

	default:
		log.WarnContext(ctx, "Session in unknown step, clearing", "admin_id", adminID)
		r.deps.Sessions.Clear(adminID)
	}
}

// finishUpload runs the await_code success path: re-post the held video to
// the archive channel for a durable file reference, then persist the movie.
// If the re-post fails the session is left untouched so the admin can fix the
// archive channel and retry with the same code.
func (r router) finishUpload(ctx context.Context, m *models.Message, sess session.Session) {
	adminID := m.From.ID
	cfg := r.deps.Config
	msgs := &cfg.Messages
	log := r.deps.Logger.With("handler", "admin_workflow", "step", "await_code")

	code := strings.TrimSpace(m.Text)
	if code == "" {
		return
	}

	_, err := r.deps.Store.GetMovieByCode(ctx, code)
	switch {
	case err == nil:
		r.sendText(ctx, m.Chat.ID, msgs.CodeTaken, nil)
		return
	case !errors.Is(err, database.ErrNotFound):
		log.ErrorContext(ctx, "Failed to check code availability", "code", code, "error", err)
		r.sendText(ctx, m.Chat.ID, msgs.SaveError, nil)
		return
	}

	r.sendText(ctx, m.Chat.ID, msgs.Uploading, nil)

	archived, err := r.deps.TG.SendVideo(ctx, &tgbot.SendVideoParams{
		ChatID: cfg.Telegram.ArchiveChannelID,
		Video:  &models.InputFileString{Data: sess.FileID},
		Caption: fmt.Sprintf(msgs.ArchiveCaption,
			code, sess.Caption, cfg.Telegram.BotUsername),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to archive video",
			"archive_channel", cfg.Telegram.ArchiveChannelID, "code", code, "error", err)
		r.sendText(ctx, m.Chat.ID, fmt.Sprintf(msgs.UploadFailed, cfg.Telegram.ArchiveChannelID), nil)
		return
	}

	durableID := sess.FileID
	if archived != nil && archived.Video != nil {
		durableID = archived.Video.FileID
	}

	_, err = r.deps.Store.CreateMovie(ctx, code, durableID, sess.Caption)
	switch {
	case errors.Is(err, database.ErrDuplicateCode):
		// Lost a race on the unique index; the code is taken after all.
		r.sendText(ctx, m.Chat.ID, msgs.CodeTaken, nil)
		return
	case err != nil:
		log.ErrorContext(ctx, "Failed to persist movie", "code", code, "error", err)
		r.sendText(ctx, m.Chat.ID, msgs.SaveError, nil)
		return
	}

	r.deps.Sessions.Clear(adminID)
	r.sendText(ctx, m.Chat.ID, fmt.Sprintf(msgs.UploadDone, code), adminKeyboard())
	log.InfoContext(ctx, "Movie catalogued", "code", code)
}

// startBroadcast snapshots the user list and schedules the fan-out. The
// session clears immediately; delivery is fire-and-forget.
func (r router) startBroadcast(ctx context.Context, m *models.Message) {
	adminID := m.From.ID
	msgs := &r.deps.Config.Messages
	log := r.deps.Logger.With("handler", "admin_workflow", "step", "broadcast")

	userIDs, err := r.deps.Store.AllUserIDs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to snapshot user list", "error", err)
		r.sendText(ctx, m.Chat.ID, msgs.SaveError, nil)
		return
	}

	r.sendText(ctx, m.Chat.ID, fmt.Sprintf(msgs.BroadcastBegin, len(userIDs)), nil)

	go r.deps.Broadcaster.Run(context.WithoutCancel(ctx), m.Chat.ID, m.ID, userIDs)

	r.deps.Sessions.Clear(adminID)
	r.sendText(ctx, m.Chat.ID, msgs.BroadcastGoing, adminKeyboard())
}

// sendChannelList shows the connected gate channels with the add/delete
// controls.
func (r router) sendChannelList(ctx context.Context, chatID int64) {
	msgs := &r.deps.Config.Messages

	channels, err := r.deps.Store.ListChannels(ctx)
	if err != nil {
		r.deps.Logger.ErrorContext(ctx, "Failed to list channels", "error", err)
		r.sendText(ctx, chatID, msgs.SaveError, nil)
		return
	}

	var sb strings.Builder
	sb.WriteString(msgs.ChannelsHeader)
	for i, ch := range channels {
		fmt.Fprintf(&sb, "%d. <a href=\"%s\">%s</a> (ID: <code>%s</code>)\n",
			i+1, ch.Link, ch.Name, ch.ChannelID)
	}

	r.sendText(ctx, chatID, sb.String(), channelMenuKeyboard())
}
