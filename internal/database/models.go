package database

import "time"

// User is an end user of the bot, created on first contact and never deleted.
type User struct {
	ChatID    int64     `db:"chat_id"`
	FirstName string    `db:"first_name"`
	JoinedAt  time.Time `db:"joined_at"`
}

// Movie is a catalogued video addressable by its admin-assigned code.
// FileID is the durable reference obtained from the archive channel.
type Movie struct {
	ID        int64     `db:"id"`
	Code      string    `db:"code"`
	FileID    string    `db:"file_id"`
	Caption   string    `db:"caption"`
	Views     int64     `db:"views"`
	CreatedAt time.Time `db:"created_at"`
}

// Channel is a subscription-gate channel end users must join before using
// retrieval.
type Channel struct {
	ID        int64     `db:"id"`
	ChannelID string    `db:"channel_id"`
	Name      string    `db:"name"`
	Link      string    `db:"link"`
	CreatedAt time.Time `db:"created_at"`
}
