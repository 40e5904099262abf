package tasks

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
)

// newProfileSummaryTask creates the task that recomputes aggregate counts and
// pushes them to the bot's public profile description. Telegram rate-limits
// description updates, so the schedule should stay coarse (hourly).
func newProfileSummaryTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "profile_summary")

	return func(ctx context.Context) error {
		users, err := deps.Store.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		movies, err := deps.Store.CountMovies(ctx)
		if err != nil {
			return fmt.Errorf("failed to count movies: %w", err)
		}

		bio := fmt.Sprintf(deps.Config.Messages.BioTemplate, users, movies)
		if _, err := deps.TG.SetMyShortDescription(ctx, &tgbot.SetMyShortDescriptionParams{
			ShortDescription: bio,
		}); err != nil {
			return fmt.Errorf("failed to update bot description: %w", err)
		}

		log.InfoContext(ctx, "Updated bot profile summary", "users", users, "movies", movies)
		return nil
	}
}
