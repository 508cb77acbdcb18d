package gamee

import (
	"fmt"
	"regexp"
)

// A game link always ends with /game-bot/<slug>-<40-char token>. The slug is
// matched lazily so the token is the first run of exactly 40 trailing chars.
var gameURLRe = regexp.MustCompile(`/game-bot/(.*?)-(.{40})$`)

// ExtractGameURL validates a raw link and returns the normalized
// "/game-bot/<slug>-<token>" path the API expects.
func ExtractGameURL(raw string) (string, error) {
	groups := gameURLRe.FindStringSubmatch(raw)
	if groups == nil || len(groups) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return fmt.Sprintf("/game-bot/%s-%s", groups[1], groups[2]), nil
}
