package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/ozodbek/kinokodbot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return database.NewStore(db, log)
}

func TestUpsertUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertUser(ctx, 100, "Ali"); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	// Repeat contact must not create a second row or fail.
	if err := store.UpsertUser(ctx, 100, "Ali"); err != nil {
		t.Fatalf("UpsertUser on existing user failed: %v", err)
	}
	if err := store.UpsertUser(ctx, 200, "Vali"); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	count, err := store.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 users, got %d", count)
	}

	ids, err := store.AllUserIDs(ctx)
	if err != nil {
		t.Fatalf("AllUserIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != 100 || ids[1] != 200 {
		t.Fatalf("expected [100 200], got %v", ids)
	}
}

func TestUpsertUserRejectsZeroChatID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.UpsertUser(context.Background(), 0, "Nobody"); err == nil {
		t.Fatal("expected error for zero chat_id")
	}
}

func TestCreateAndGetMovie(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	movie, err := store.CreateMovie(ctx, "A1", "file-a1", "Test")
	if err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}
	if movie.ID == 0 {
		t.Fatal("expected assigned movie ID")
	}
	if movie.Views != 0 {
		t.Fatalf("expected views to start at 0, got %d", movie.Views)
	}

	got, err := store.GetMovieByCode(ctx, "A1")
	if err != nil {
		t.Fatalf("GetMovieByCode failed: %v", err)
	}
	if got.Code != "A1" || got.FileID != "file-a1" || got.Caption != "Test" {
		t.Fatalf("unexpected movie: %+v", got)
	}

	if _, err := store.GetMovieByCode(ctx, "ZZZ"); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestCreateMovieDuplicateCode(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateMovie(ctx, "A1", "file-a1", "First"); err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}

	_, err := store.CreateMovie(ctx, "A1", "file-other", "Second")
	if !errors.Is(err, database.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}

	// The original record must be untouched by the failed insert.
	got, err := store.GetMovieByCode(ctx, "A1")
	if err != nil {
		t.Fatalf("GetMovieByCode failed: %v", err)
	}
	if got.FileID != "file-a1" {
		t.Fatalf("expected original file_id, got %q", got.FileID)
	}
}

func TestCreateMovieConcurrentSameCode(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	const workers = 4
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = store.CreateMovie(ctx, "RACE", "file-race", "Race")
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, database.ErrDuplicateCode):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one winner, got %d", succeeded)
	}
}

func TestCreateMovieValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateMovie(ctx, "", "file", "x"); err == nil {
		t.Fatal("expected error for empty code")
	}
	if _, err := store.CreateMovie(ctx, "A1", "", "x"); err == nil {
		t.Fatal("expected error for empty file_id")
	}
}

func TestIncrementViews(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	movie, err := store.CreateMovie(ctx, "A1", "file-a1", "Test")
	if err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}

	for want := int64(1); want <= 3; want++ {
		views, err := store.IncrementViews(ctx, movie.ID)
		if err != nil {
			t.Fatalf("IncrementViews failed: %v", err)
		}
		if views != want {
			t.Fatalf("expected %d views, got %d", want, views)
		}
	}

	got, err := store.GetMovieByCode(ctx, "A1")
	if err != nil {
		t.Fatalf("GetMovieByCode failed: %v", err)
	}
	if got.Views != 3 {
		t.Fatalf("expected persisted views 3, got %d", got.Views)
	}

	if _, err := store.IncrementViews(ctx, 9999); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown movie, got %v", err)
	}
}

func TestCountMovies(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.CountMovies(ctx)
	if err != nil {
		t.Fatalf("CountMovies failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 movies, got %d", count)
	}

	for _, code := range []string{"A1", "B2", "C3"} {
		if _, err := store.CreateMovie(ctx, code, "file-"+code, "Kino"); err != nil {
			t.Fatalf("CreateMovie(%s) failed: %v", code, err)
		}
	}

	count, err = store.CountMovies(ctx)
	if err != nil {
		t.Fatalf("CountMovies failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 movies, got %d", count)
	}
}

func TestChannelLifecycle(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	channels, err := store.ListChannels(ctx)
	if err != nil {
		t.Fatalf("ListChannels failed: %v", err)
	}
	if len(channels) != 0 {
		t.Fatalf("expected no channels, got %d", len(channels))
	}

	if err := store.AddChannel(ctx, "@kino_uz", "Kino UZ", "https://t.me/kino_uz"); err != nil {
		t.Fatalf("AddChannel failed: %v", err)
	}
	if err := store.AddChannel(ctx, "-100123456", "Premyera", "https://t.me/premyera"); err != nil {
		t.Fatalf("AddChannel failed: %v", err)
	}

	channels, err = store.ListChannels(ctx)
	if err != nil {
		t.Fatalf("ListChannels failed: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(channels))
	}
	if channels[0].ChannelID != "@kino_uz" || channels[0].Name != "Kino UZ" {
		t.Fatalf("unexpected first channel: %+v", channels[0])
	}

	if err := store.DeleteChannel(ctx, channels[0].ID); err != nil {
		t.Fatalf("DeleteChannel failed: %v", err)
	}

	channels, err = store.ListChannels(ctx)
	if err != nil {
		t.Fatalf("ListChannels failed: %v", err)
	}
	if len(channels) != 1 || channels[0].ChannelID != "-100123456" {
		t.Fatalf("expected only the second channel to remain, got %+v", channels)
	}

	if err := store.AddChannel(ctx, "", "Empty", ""); err == nil {
		t.Fatal("expected error for empty channel_id")
	}
}
