package gate_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ozodbek/kinokodbot/internal/database"
	"github.com/ozodbek/kinokodbot/internal/gate"
)

const adminID int64 = 42

type fakeLister struct {
	channels []database.Channel
	err      error
}

func (f *fakeLister) ListChannels(context.Context) ([]database.Channel, error) {
	return f.channels, f.err
}

type fakeChecker struct {
	statuses map[string]models.ChatMemberType
	errs     map[string]error
	calls    []string
}

func (f *fakeChecker) GetChatMember(_ context.Context, params *tgbot.GetChatMemberParams) (*models.ChatMember, error) {
	channelID, _ := params.ChatID.(string)
	f.calls = append(f.calls, channelID)

	if err, ok := f.errs[channelID]; ok {
		return nil, err
	}
	status, ok := f.statuses[channelID]
	if !ok {
		status = models.ChatMemberTypeMember
	}
	return &models.ChatMember{Type: status}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoChannels() []database.Channel {
	return []database.Channel{
		{ID: 1, ChannelID: "@kino_uz", Name: "Kino UZ", Link: "https://t.me/kino_uz"},
		{ID: 2, ChannelID: "@premyera", Name: "Premyera", Link: "https://t.me/premyera"},
	}
}

func TestSatisfied(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		userID   int64
		channels []database.Channel
		listErr  error
		statuses map[string]models.ChatMemberType
		errs     map[string]error
		want     bool
	}{
		{
			name:     "admin always passes",
			userID:   adminID,
			channels: twoChannels(),
			statuses: map[string]models.ChatMemberType{"@kino_uz": models.ChatMemberTypeLeft},
			want:     true,
		},
		{
			name:   "no channels configured passes",
			userID: 7,
			want:   true,
		},
		{
			name:     "member of all channels passes",
			userID:   7,
			channels: twoChannels(),
			want:     true,
		},
		{
			name:     "left one channel fails",
			userID:   7,
			channels: twoChannels(),
			statuses: map[string]models.ChatMemberType{"@premyera": models.ChatMemberTypeLeft},
			want:     false,
		},
		{
			name:     "banned fails",
			userID:   7,
			channels: twoChannels(),
			statuses: map[string]models.ChatMemberType{"@kino_uz": models.ChatMemberTypeBanned},
			want:     false,
		},
		{
			name:     "lookup failure skips the channel",
			userID:   7,
			channels: twoChannels(),
			errs:     map[string]error{"@kino_uz": errors.New("chat not found")},
			want:     true,
		},
		{
			name:    "channel list failure lets the user through",
			userID:  7,
			listErr: errors.New("database unavailable"),
			want:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lister := &fakeLister{channels: tc.channels, err: tc.listErr}
			checker := &fakeChecker{statuses: tc.statuses, errs: tc.errs}
			g := gate.New(lister, checker, adminID, testLogger())

			got := g.Satisfied(context.Background(), tc.userID)
			if got != tc.want {
				t.Fatalf("Satisfied() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSatisfiedAdminSkipsMembershipLookups(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{}
	g := gate.New(&fakeLister{channels: twoChannels()}, checker, adminID, testLogger())

	if !g.Satisfied(context.Background(), adminID) {
		t.Fatal("expected admin to pass")
	}
	if len(checker.calls) != 0 {
		t.Fatalf("expected no membership lookups for admin, got %v", checker.calls)
	}
}

func TestPromptReflectsChannelList(t *testing.T) {
	t.Parallel()

	g := gate.New(&fakeLister{channels: twoChannels()}, &fakeChecker{}, adminID, testLogger())

	markup, err := g.Prompt(context.Background())
	if err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}

	if len(markup.InlineKeyboard) != 3 {
		t.Fatalf("expected 2 channel rows plus confirm row, got %d rows", len(markup.InlineKeyboard))
	}
	if markup.InlineKeyboard[0][0].Text != "➕ Kino UZ" || markup.InlineKeyboard[0][0].URL != "https://t.me/kino_uz" {
		t.Fatalf("unexpected first row: %+v", markup.InlineKeyboard[0][0])
	}
	confirm := markup.InlineKeyboard[2][0]
	if confirm.CallbackData != gate.ConfirmCallback {
		t.Fatalf("expected confirm callback %q, got %q", gate.ConfirmCallback, confirm.CallbackData)
	}
}

func TestPromptEmptyListStillHasConfirmRow(t *testing.T) {
	t.Parallel()

	g := gate.New(&fakeLister{}, &fakeChecker{}, adminID, testLogger())

	markup, err := g.Prompt(context.Background())
	if err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}
	if len(markup.InlineKeyboard) != 1 {
		t.Fatalf("expected only the confirm row, got %d rows", len(markup.InlineKeyboard))
	}
}

func TestPromptPropagatesListError(t *testing.T) {
	t.Parallel()

	listErr := errors.New("database unavailable")
	g := gate.New(&fakeLister{err: listErr}, &fakeChecker{}, adminID, testLogger())

	if _, err := g.Prompt(context.Background()); !errors.Is(err, listErr) {
		t.Fatalf("expected list error, got %v", err)
	}
}
