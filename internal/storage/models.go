package storage

import "time"

// User is one Telegram account known to the bot.
type User struct {
	ID       int64
	Username string
	IsAdmin  bool
	Language string
	// Stack is the navigation history, bottom is always the main menu.
	Stack []string
	// LastURL is the pending game link waiting for a score.
	LastURL      string
	RegisterDate time.Time
}

// GameRecord is the best known result for a user on one game link. Unique
// per (user id, url).
type GameRecord struct {
	ID       int64
	UserID   int64
	Title    string
	URL      string
	PhotoURL string
	Score    int
	Rank     int
}
