package gamee

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractGameURL(t *testing.T) {
	token := strings.Repeat("ab", 20) // 40 chars

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "full prize link",
			raw:  "https://prizes.gamee.com/game-bot/karate-kido-2-" + token,
			want: "/game-bot/karate-kido-2-" + token,
		},
		{
			name: "bare path",
			raw:  "/game-bot/snake-" + token,
			want: "/game-bot/snake-" + token,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractGameURL(tc.raw)
			if err != nil {
				t.Fatalf("ExtractGameURL(%q): %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("ExtractGameURL(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestExtractGameURLInvalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no game-bot segment", "https://prizes.gamee.com/other/snake-" + strings.Repeat("x", 40)},
		{"token too short", "https://prizes.gamee.com/game-bot/snake-" + strings.Repeat("x", 39)},
		{"no token at all", "https://prizes.gamee.com/game-bot/snake"},
		{"plain url", "https://example.com/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractGameURL(tc.raw)
			if !errors.Is(err, ErrInvalidURL) {
				t.Fatalf("ExtractGameURL(%q) err = %v, want ErrInvalidURL", tc.raw, err)
			}
			if got != "" {
				t.Errorf("ExtractGameURL(%q) returned partial result %q", tc.raw, got)
			}
		})
	}
}
