package gamee

import "testing"

func TestChecksumKnownValues(t *testing.T) {
	cases := []struct {
		score    int
		playTime int
		gameURL  string
		want     string
	}{
		{100, 60, "/game-bot/karate-kido-2-aaaaaaaaaabbbbbbbbbbccccccccccdddddddddd", "3792d61902c40b4d419c14eac795a091"},
		{42, 37, "/game-bot/snake-0123456789012345678901234567890123456789", "33105324919c4111b8e04c1e175c9fa7"},
	}
	for _, tc := range cases {
		got := Checksum(tc.score, tc.playTime, tc.gameURL, DefaultSalt)
		if got != tc.want {
			t.Errorf("Checksum(%d, %d, %q) = %q, want %q", tc.score, tc.playTime, tc.gameURL, got, tc.want)
		}
	}
}

func TestChecksumDeterministic(t *testing.T) {
	first := Checksum(999, 120, "/game-bot/tower-xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", DefaultSalt)
	for i := 0; i < 10; i++ {
		again := Checksum(999, 120, "/game-bot/tower-xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", DefaultSalt)
		if again != first {
			t.Fatalf("checksum not stable: %q vs %q", again, first)
		}
	}
	if len(first) != 32 {
		t.Errorf("checksum length = %d, want 32", len(first))
	}
}

func TestChecksumSaltSensitive(t *testing.T) {
	url := "/game-bot/snake-0123456789012345678901234567890123456789"
	if Checksum(42, 37, url, DefaultSalt) == Checksum(42, 37, url, "other") {
		t.Error("different salts produced the same checksum")
	}
}
