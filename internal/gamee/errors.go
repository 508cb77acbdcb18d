package gamee

import "errors"

var (
	// ErrInvalidURL - the link does not look like a Gamee game-bot link.
	ErrInvalidURL = errors.New("gamee: invalid game url")
	// ErrAuth - the device login did not yield credentials.
	ErrAuth = errors.New("gamee: bot login failed")
	// ErrMetadata - the gameplay details lookup did not yield a game.
	ErrMetadata = errors.New("gamee: gameplay details lookup failed")
)
