package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrDuplicateCode is returned by CreateMovie when the code is already taken.
var ErrDuplicateCode = errors.New("duplicate movie code")

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for database operations. All methods accept a
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser records a user on first contact. Existing users are left
	// untouched.
	UpsertUser(ctx context.Context, chatID int64, firstName string) error

	// CountUsers returns the total number of known users.
	CountUsers(ctx context.Context) (int64, error)

	// AllUserIDs returns a snapshot of every known user chat ID.
	AllUserIDs(ctx context.Context) ([]int64, error)

	// GetMovieByCode retrieves a movie by its code. Returns ErrNotFound on a
	// miss.
	GetMovieByCode(ctx context.Context, code string) (*Movie, error)

	// CreateMovie inserts a new movie. Returns ErrDuplicateCode if the code is
	// already taken.
	CreateMovie(ctx context.Context, code, fileID, caption string) (*Movie, error)

	// IncrementViews adds one to a movie's view counter and returns the new
	// value.
	IncrementViews(ctx context.Context, movieID int64) (int64, error)

	// CountMovies returns the total number of catalogued movies.
	CountMovies(ctx context.Context) (int64, error)

	// ListChannels returns all subscription-gate channels.
	ListChannels(ctx context.Context) ([]Channel, error)

	// AddChannel registers a new subscription-gate channel.
	AddChannel(ctx context.Context, channelID, name, link string) error

	// DeleteChannel removes a subscription-gate channel by row ID.
	DeleteChannel(ctx context.Context, id int64) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx. It requires a connected sqlx.DB
// instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) UpsertUser(ctx context.Context, chatID int64, firstName string) error {
	if chatID == 0 {
		return fmt.Errorf("chat_id cannot be zero")
	}

	query := `
        INSERT INTO users (chat_id, first_name, joined_at)
        VALUES (?, ?, ?)
        ON CONFLICT (chat_id) DO NOTHING;
    `
	_, err := s.db.ExecContext(ctx, query, chatID, firstName, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to upsert user %d: %w", chatID, err)
	}
	return nil
}

func (s *sqlxStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (s *sqlxStore) AllUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT chat_id FROM users ORDER BY chat_id`); err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	return ids, nil
}

func (s *sqlxStore) GetMovieByCode(ctx context.Context, code string) (*Movie, error) {
	var movie Movie
	query := `SELECT id, code, file_id, caption, views, created_at FROM movies WHERE code = ?`

	err := s.db.GetContext(ctx, &movie, query, code)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting movie by code", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get movie %q: %w", code, err)
	}
	return &movie, nil
}

func (s *sqlxStore) CreateMovie(ctx context.Context, code, fileID, caption string) (*Movie, error) {
	if code == "" {
		return nil, fmt.Errorf("movie code cannot be empty")
	}
	if fileID == "" {
		return nil, fmt.Errorf("movie file_id cannot be empty")
	}

	movie := &Movie{
		Code:      code,
		FileID:    fileID,
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
	}

	query := `
        INSERT INTO movies (code, file_id, caption, views, created_at)
        VALUES (:code, :file_id, :caption, 0, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, movie)
	if err != nil {
		// Concurrent creations of the same code both pass the caller's
		// pre-check; the unique index decides the loser here.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		s.logger.ErrorContext(ctx, "Error creating movie", "code", code, "error", err)
		return nil, fmt.Errorf("failed to create movie %q: %w", code, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		movie.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after creating movie",
			"code", code, "error", err)
	}

	return movie, nil
}

func (s *sqlxStore) IncrementViews(ctx context.Context, movieID int64) (int64, error) {
	var views int64
	query := `UPDATE movies SET views = views + 1 WHERE id = ? RETURNING views`

	err := s.db.GetContext(ctx, &views, query, movieID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, ErrNotFound
	case err != nil:
		s.logger.ErrorContext(ctx, "Error incrementing views", "movie_id", movieID, "error", err)
		return 0, fmt.Errorf("failed to increment views for movie %d: %w", movieID, err)
	}
	return views, nil
}

func (s *sqlxStore) CountMovies(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

func (s *sqlxStore) ListChannels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	query := `SELECT id, channel_id, name, link, created_at FROM channels ORDER BY id`

	if err := s.db.SelectContext(ctx, &channels, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing channels", "error", err)
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

func (s *sqlxStore) AddChannel(ctx context.Context, channelID, name, link string) error {
	if channelID == "" {
		return fmt.Errorf("channel_id cannot be empty")
	}

	query := `INSERT INTO channels (channel_id, name, link, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, channelID, name, link, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error adding channel", "channel_id", channelID, "error", err)
		return fmt.Errorf("failed to add channel %s: %w", channelID, err)
	}
	return nil
}

func (s *sqlxStore) DeleteChannel(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM channels WHERE id = ?`, id); err != nil {
		s.logger.ErrorContext(ctx, "Error deleting channel", "id", id, "error", err)
		return fmt.Errorf("failed to delete channel %d: %w", id, err)
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// violation. The modernc driver surfaces these as plain errors, so the
// constraint name in the message is the stable signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
