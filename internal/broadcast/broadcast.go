// Package broadcast implements the best-effort mass-send fan-out. Deliveries
// are staggered, never retried, and a failed recipient never aborts the rest.
package broadcast

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"golang.org/x/sync/errgroup"
)

// MessageCopier copies a message to a recipient chat.
type MessageCopier interface {
	CopyMessage(ctx context.Context, params *tgbot.CopyMessageParams) (*models.MessageID, error)
}

// Broadcaster fans a single message out to a snapshot of recipients using a
// bounded worker pool with a fixed stagger between launches.
type Broadcaster struct {
	tg      MessageCopier
	logger  *slog.Logger
	stagger time.Duration
	workers int
}

// New creates a Broadcaster.
func New(tg MessageCopier, stagger time.Duration, workers int, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Broadcaster{
		tg:      tg,
		logger:  logger.With("component", "broadcast"),
		stagger: stagger,
		workers: workers,
	}
}

// Run delivers the message identified by fromChatID/messageID to every user in
// userIDs. Per-recipient failures are counted and logged once at the end.
// There is no cancellation beyond ctx and no completion report to the admin.
func (b *Broadcaster) Run(ctx context.Context, fromChatID int64, messageID int, userIDs []int64) {
	start := time.Now()
	b.logger.InfoContext(ctx, "Starting broadcast", "recipients", len(userIDs))

	var delivered, failed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for _, userID := range userIDs {
		if gCtx.Err() != nil {
			break
		}

		uid := userID
		g.Go(func() error {
			_, err := b.tg.CopyMessage(gCtx, &tgbot.CopyMessageParams{
				ChatID:     uid,
				FromChatID: fromChatID,
				MessageID:  messageID,
			})
			if err != nil {
				// Blocked bots and deactivated accounts land here; policy is
				// to drop them silently.
				failed.Add(1)
				b.logger.DebugContext(gCtx, "Broadcast delivery failed", "user_id", uid, "error", err)
				return nil
			}
			delivered.Add(1)
			return nil
		})

		time.Sleep(b.stagger)
	}

	_ = g.Wait()

	b.logger.InfoContext(ctx, "Broadcast finished",
		"recipients", len(userIDs),
		"delivered", delivered.Load(),
		"failed", failed.Load(),
		"duration", time.Since(start))
}
