package gamee

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Submission is one attempt to forge and post a score for a game link. It is
// ephemeral: created per attempt, never persisted.
type Submission struct {
	URL      string // raw link as received from the user
	GameURL  string // normalized /game-bot/<slug>-<token> path
	Score    int
	PlayTime int // simulated play duration, seconds
	Checksum string

	// InstallUUID is a fresh device identity, one per submission.
	InstallUUID string

	AuthToken     string
	UserID        int64
	UserPersonal  json.RawMessage
	GameID        int
	GameTitle     string
	GameImage     string
	ReleaseNumber int

	client   *Client
	response []byte // raw saveWebGameplay response, nil until SendScore
}

// NewSubmission resolves the link and precomputes the checksum and device
// identity. No remote calls happen here.
func (c *Client) NewSubmission(rawURL string, score, playTime int) (*Submission, error) {
	gameURL, err := ExtractGameURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Submission{
		URL:         rawURL,
		GameURL:     gameURL,
		Score:       score,
		PlayTime:    playTime,
		Checksum:    Checksum(score, playTime, gameURL, c.Salt),
		InstallUUID: uuid.NewString(),
		client:      c,
	}, nil
}

type botLoginParams struct {
	BotName           string  `json:"botName"`
	BotGameURL        string  `json:"botGameUrl"`
	BotUserIdentifier *string `json:"botUserIdentifier"`
}

// Login performs the device login: a fresh install uuid is exchanged for an
// auth token, a user id and the user's personal blob. Must precede SendScore.
func (s *Submission) Login(ctx context.Context) error {
	raw, err := s.client.call(ctx, s.InstallUUID, "", methodBotLogin, botLoginParams{
		BotName:    botChannelName,
		BotGameURL: s.GameURL,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}

	var out struct {
		Result *struct {
			Tokens struct {
				Authenticate string `json:"authenticate"`
			} `json:"tokens"`
			User struct {
				ID       int64           `json:"id"`
				Personal json.RawMessage `json:"personal"`
			} `json:"user"`
		} `json:"result"`
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if out.Result == nil || out.Error != nil {
		return fmt.Errorf("%w: no result in response", ErrAuth)
	}

	s.AuthToken = out.Result.Tokens.Authenticate
	s.UserID = out.Result.User.ID
	s.UserPersonal = out.Result.User.Personal
	return nil
}

// FetchGameDetails looks up the numeric game id, release number, title and
// image for the resolved url. May run before or after Login, but must
// complete before SendScore.
func (s *Submission) FetchGameDetails(ctx context.Context) error {
	raw, err := s.client.call(ctx, s.InstallUUID, "", methodGameDetails, map[string]string{
		"gameUrl": s.GameURL,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	var out struct {
		Result *struct {
			Game struct {
				ID      int    `json:"id"`
				Name    string `json:"name"`
				Image   string `json:"image"`
				Release struct {
					Number int `json:"number"`
				} `json:"release"`
			} `json:"game"`
		} `json:"result"`
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%w: %v", ErrMetadata, err)
	}
	if out.Result == nil || out.Error != nil {
		return fmt.Errorf("%w: no result in response", ErrMetadata)
	}

	s.GameID = out.Result.Game.ID
	s.GameTitle = out.Result.Game.Name
	s.GameImage = out.Result.Game.Image
	s.ReleaseNumber = out.Result.Game.Release.Number
	return nil
}

type gameplayMetadata struct {
	GameplayID int `json:"gameplayId"`
}

type gameplayData struct {
	GameID             int              `json:"gameId"`
	Score              int              `json:"score"`
	PlayTime           int              `json:"playTime"`
	GameURL            string           `json:"gameUrl"`
	Metadata           gameplayMetadata `json:"metadata"`
	ReleaseNumber      int              `json:"releaseNumber"`
	GameStateData      interface{}      `json:"gameStateData"`
	CreatedTime        string           `json:"createdTime"`
	Checksum           string           `json:"checksum"`
	ReplayVariant      interface{}      `json:"replayVariant"`
	ReplayData         interface{}      `json:"replayData"`
	ReplayDataChecksum interface{}      `json:"replayDataChecksum"`
	GameplayOrigin     string           `json:"gameplayOrigin"`
}

// SendScore posts the signed gameplay record. The raw response is retained
// on the submission for IsBanned/UserRank/UserRecord. Each call creates an
// independent remote record; "keep best score" is the caller's job.
func (s *Submission) SendScore(ctx context.Context) error {
	created := s.client.CreatedTime
	if created == "" {
		created = time.Now().Format(time.RFC3339)
	}

	raw, err := s.client.call(ctx, s.InstallUUID, s.AuthToken, methodSaveGameplay, map[string]gameplayData{
		"gameplayData": {
			GameID:         s.GameID,
			Score:          s.Score,
			PlayTime:       s.PlayTime,
			GameURL:        s.GameURL,
			Metadata:       gameplayMetadata{GameplayID: rand.Intn(s.client.GameplayIDMax) + 1},
			ReleaseNumber:  s.ReleaseNumber,
			CreatedTime:    created,
			Checksum:       s.Checksum,
			GameplayOrigin: "game",
		},
	})
	if err != nil {
		return err
	}
	s.response = raw
	return nil
}

// IsBanned reports whether the service rejected the gameplay. This is
// deliberately a substring scan over the whole serialized response, not a
// structured field check: the service's real error schema is unknown and it
// has been seen reporting failures in more than one shape.
func (s *Submission) IsBanned() bool {
	return len(s.response) == 0 || strings.Contains(string(s.response), "error")
}

// saveResponse covers only the slice of the save response the reader needs.
type saveResponse struct {
	Result struct {
		SurroundingRankings []struct {
			Ranking []rankingEntry `json:"ranking"`
		} `json:"surroundingRankings"`
	} `json:"result"`
}

type rankingEntry struct {
	Rank  int `json:"rank"`
	Score int `json:"score"`
	User  struct {
		ID int64 `json:"id"`
	} `json:"user"`
}

// UserRank returns the current user's rank from the ranking section of the
// retained response. A missing or malformed section is a normal empty
// result, not an error.
func (s *Submission) UserRank() (int, bool) {
	entry, ok := s.findRanking()
	if !ok {
		return 0, false
	}
	return entry.Rank, true
}

// UserRecord returns the current user's score from the ranking section, with
// the same not-found semantics as UserRank.
func (s *Submission) UserRecord() (int, bool) {
	entry, ok := s.findRanking()
	if !ok {
		return 0, false
	}
	return entry.Score, true
}

func (s *Submission) findRanking() (rankingEntry, bool) {
	if s.IsBanned() {
		return rankingEntry{}, false
	}
	var out saveResponse
	if err := json.Unmarshal(s.response, &out); err != nil {
		return rankingEntry{}, false
	}
	if len(out.Result.SurroundingRankings) == 0 {
		return rankingEntry{}, false
	}
	for _, entry := range out.Result.SurroundingRankings[0].Ranking {
		if entry.User.ID == s.UserID {
			return entry, true
		}
	}
	return rankingEntry{}, false
}
