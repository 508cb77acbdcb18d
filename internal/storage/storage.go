package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

// New opens a connection pool to Postgres.
func New(dsn string) (*Storage, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &Storage{db: pool}, nil
}

// Ping checks the DB connection.
func (s *Storage) Ping() error {
	return s.db.Ping(context.Background())
}

// GetUser returns a user by chat id, or nil if the user is unknown.
func (s *Storage) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, is_admin, language, return_stack, last_url, register_date
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.IsAdmin, &u.Language, &u.Stack, &u.LastURL, &u.RegisterDate)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// PutUser inserts or updates a user row.
func (s *Storage) PutUser(ctx context.Context, u *User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, username, is_admin, language, return_stack, last_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET username = $2, is_admin = $3, language = $4, return_stack = $5, last_url = $6`,
		u.ID, u.Username, u.IsAdmin, u.Language, u.Stack, u.LastURL,
	)
	return err
}

// GetGame returns the saved record for a (user, url) pair, or nil if there
// is none yet.
func (s *Storage) GetGame(ctx context.Context, userID int64, url string) (*GameRecord, error) {
	var g GameRecord
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, title, url, photo_url, score, rank
		 FROM games WHERE user_id = $1 AND url = $2`,
		userID, url,
	).Scan(&g.ID, &g.UserID, &g.Title, &g.URL, &g.PhotoURL, &g.Score, &g.Rank)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// PutGame inserts a new game record or updates an existing one in place.
func (s *Storage) PutGame(ctx context.Context, g *GameRecord) error {
	if g.ID == 0 {
		return s.db.QueryRow(ctx,
			`INSERT INTO games (user_id, title, url, photo_url, score, rank)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			g.UserID, g.Title, g.URL, g.PhotoURL, g.Score, g.Rank,
		).Scan(&g.ID)
	}
	_, err := s.db.Exec(ctx,
		`UPDATE games SET title = $1, photo_url = $2, score = $3, rank = $4 WHERE id = $5`,
		g.Title, g.PhotoURL, g.Score, g.Rank, g.ID,
	)
	return err
}

// ListGames returns all saved game records of one user.
func (s *Storage) ListGames(ctx context.Context, userID int64) ([]GameRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, title, url, photo_url, score, rank
		 FROM games WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.URL, &g.PhotoURL, &g.Score, &g.Rank); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// DeleteGame removes a game record by id.
func (s *Storage) DeleteGame(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, "DELETE FROM games WHERE id = $1", id)
	return err
}
