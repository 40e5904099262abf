package tasks_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbot "github.com/go-telegram/bot"

	"github.com/ozodbek/kinokodbot/internal/bot/tasks"
	"github.com/ozodbek/kinokodbot/internal/config"
	"github.com/ozodbek/kinokodbot/internal/database"
)

type fakeBioSetter struct {
	lastBio string
	err     error
}

func (f *fakeBioSetter) SetMyShortDescription(_ context.Context, params *tgbot.SetMyShortDescriptionParams) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.lastBio = params.ShortDescription
	return true, nil
}

func newTaskDeps(t *testing.T, tg tasks.BioSetter) tasks.TaskDeps {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return tasks.TaskDeps{
		Logger: log,
		Store:  database.NewStore(db, log),
		Config: &config.Config{Messages: config.Messages{
			BioTemplate: "Foydalanuvchilar: %d, Kinolar: %d",
		}},
		TG: tg,
	}
}

func TestProfileSummaryTask(t *testing.T) {
	t.Parallel()

	tg := &fakeBioSetter{}
	deps := newTaskDeps(t, tg)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		if err := deps.Store.UpsertUser(ctx, id, "User"); err != nil {
			t.Fatalf("UpsertUser failed: %v", err)
		}
	}
	if _, err := deps.Store.CreateMovie(ctx, "A1", "file-a1", "Kino"); err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}

	task, ok := tasks.RegisterAllTasks(deps)["profile_summary"]
	if !ok {
		t.Fatal("expected profile_summary task registered")
	}

	if err := task(ctx); err != nil {
		t.Fatalf("task failed: %v", err)
	}
	if want := "Foydalanuvchilar: 3, Kinolar: 1"; tg.lastBio != want {
		t.Fatalf("expected bio %q, got %q", want, tg.lastBio)
	}
}

func TestProfileSummaryTaskPropagatesAPIError(t *testing.T) {
	t.Parallel()

	apiErr := errors.New("Too Many Requests")
	deps := newTaskDeps(t, &fakeBioSetter{err: apiErr})

	task := tasks.RegisterAllTasks(deps)["profile_summary"]
	if err := task(context.Background()); !errors.Is(err, apiErr) {
		t.Fatalf("expected API error propagated, got %v", err)
	}
}
