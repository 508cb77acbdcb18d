package gamee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	// DefaultAPIURL is the single JSON-RPC endpoint of the scoring service.
	DefaultAPIURL = "https://api.service.gameeapp.com/"

	// The service rejects requests without a browser-looking user agent.
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:99.0) Gecko/20100101 Firefox/99.0"

	methodBotLogin     = "user.authentication.botLogin"
	methodGameDetails  = "game.getWebGameplayDetails"
	methodSaveGameplay = "game.saveWebGameplay"

	botChannelName = "telegram"

	// defaultGameplayIDMax bounds the random gameplay correlation id. The
	// value only shapes the request; the service has never been observed to
	// validate it.
	defaultGameplayIDMax = 500
)

// Client talks to the Gamee scoring service. The zero value is not usable,
// construct with NewClient and override fields before the first call if
// needed.
type Client struct {
	APIURL     string
	Salt       string
	UserAgent  string
	HTTPClient *http.Client

	// CreatedTime overrides the gameplay creation timestamp sent to the
	// service. Empty means "now" in RFC 3339.
	CreatedTime string
	// GameplayIDMax is the upper bound (inclusive) of the random gameplay
	// correlation id.
	GameplayIDMax int
}

// NewClient returns a client wired to the production endpoint.
func NewClient() *Client {
	return &Client{
		APIURL:        DefaultAPIURL,
		Salt:          DefaultSalt,
		UserAgent:     defaultUserAgent,
		HTTPClient:    http.DefaultClient,
		GameplayIDMax: defaultGameplayIDMax,
	}
}

// rpcRequest is the JSON-RPC envelope; the service uses the method name as
// the request id as well.
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// call posts one JSON-RPC request and returns the raw response body. The
// auth token is optional; the install uuid travels on every call.
func (c *Client) call(ctx context.Context, installUUID, authToken, method string, params interface{}) ([]byte, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      method,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Install-Uuid", installUUID)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", method, err)
	}
	return raw, nil
}

// Outcome summarizes one completed submission for the caller.
type Outcome struct {
	GameURL string
	Title   string
	Image   string
	Score   int
	Rank    int
	Record  int
	Banned  bool
}

// SubmitScore runs the whole pipeline for one link: resolve the url, log in
// a fresh device, fetch the game metadata and post the signed gameplay. All
// remote calls are sequential and one-shot; any failure aborts the attempt.
func (c *Client) SubmitScore(ctx context.Context, rawURL string, score, playTime int) (*Outcome, error) {
	sub, err := c.NewSubmission(rawURL, score, playTime)
	if err != nil {
		return nil, err
	}
	if err := sub.Login(ctx); err != nil {
		return nil, err
	}
	if err := sub.FetchGameDetails(ctx); err != nil {
		return nil, err
	}
	if err := sub.SendScore(ctx); err != nil {
		return nil, err
	}

	out := &Outcome{
		GameURL: sub.GameURL,
		Title:   sub.GameTitle,
		Image:   sub.GameImage,
		Score:   score,
		Banned:  sub.IsBanned(),
	}
	if rank, ok := sub.UserRank(); ok {
		out.Rank = rank
	}
	if record, ok := sub.UserRecord(); ok {
		out.Record = record
	}
	return out, nil
}
