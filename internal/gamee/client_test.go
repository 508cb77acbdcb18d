package gamee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "aaaaaaaaaabbbbbbbbbbccccccccccdddddddddd"

var testLink = "https://prizes.gamee.com/game-bot/snake-" + testToken

func testClient(serverURL string) *Client {
	c := NewClient()
	c.APIURL = serverURL
	c.CreatedTime = "2022-04-23T14:15:19+04:30"
	return c
}

// decodeRPC reads one JSON-RPC request from the wire for inspection.
func decodeRPC(t *testing.T, r *http.Request) (rpcRequest, map[string]interface{}) {
	t.Helper()
	var req struct {
		JSONRPC string                 `json:"jsonrpc"`
		ID      string                 `json:"id"`
		Method  string                 `json:"method"`
		Params  map[string]interface{} `json:"params"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return rpcRequest{JSONRPC: req.JSONRPC, ID: req.ID, Method: req.Method}, req.Params
}

func TestLogin(t *testing.T) {
	var gotInstallUUID, gotMethod string
	var gotParams map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotInstallUUID = r.Header.Get("X-Install-Uuid")
		env, params := decodeRPC(t, r)
		gotMethod = env.Method
		gotParams = params
		fmt.Fprint(w, `{"jsonrpc":"2.0","result":{"tokens":{"authenticate":"tok-123"},"user":{"id":777,"personal":{"nickname":"gamer"}}}}`)
	}))
	defer server.Close()

	sub, err := testClient(server.URL).NewSubmission(testLink, 100, 60)
	require.NoError(t, err)

	require.NoError(t, sub.Login(context.Background()))

	assert.Equal(t, sub.InstallUUID, gotInstallUUID)
	assert.Equal(t, "user.authentication.botLogin", gotMethod)
	assert.Equal(t, "telegram", gotParams["botName"])
	assert.Equal(t, "/game-bot/snake-"+testToken, gotParams["botGameUrl"])
	assert.Nil(t, gotParams["botUserIdentifier"])

	assert.Equal(t, "tok-123", sub.AuthToken)
	assert.Equal(t, int64(777), sub.UserID)
	assert.JSONEq(t, `{"nickname":"gamer"}`, string(sub.UserPersonal))
}

func TestLoginFailure(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"error field", `{"jsonrpc":"2.0","error":{"code":-32000,"message":"nope"},"result":{}}`},
		{"no result", `{"jsonrpc":"2.0"}`},
		{"not json", `<html>boom</html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			sub, err := testClient(server.URL).NewSubmission(testLink, 100, 60)
			require.NoError(t, err)

			err = sub.Login(context.Background())
			assert.ErrorIs(t, err, ErrAuth)
		})
	}
}

func TestFetchGameDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env, params := decodeRPC(t, r)
		assert.Equal(t, "game.getWebGameplayDetails", env.Method)
		assert.Equal(t, "/game-bot/snake-"+testToken, params["gameUrl"])
		fmt.Fprint(w, `{"jsonrpc":"2.0","result":{"game":{"id":42,"name":"Snake","image":"https://cdn.example.com/snake.png","release":{"number":7}}}}`)
	}))
	defer server.Close()

	sub, err := testClient(server.URL).NewSubmission(testLink, 100, 60)
	require.NoError(t, err)

	require.NoError(t, sub.FetchGameDetails(context.Background()))
	assert.Equal(t, 42, sub.GameID)
	assert.Equal(t, "Snake", sub.GameTitle)
	assert.Equal(t, "https://cdn.example.com/snake.png", sub.GameImage)
	assert.Equal(t, 7, sub.ReleaseNumber)
}

func TestFetchGameDetailsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","error":{"message":"unknown game"},"result":{"game":{}}}`)
	}))
	defer server.Close()

	sub, err := testClient(server.URL).NewSubmission(testLink, 100, 60)
	require.NoError(t, err)

	assert.ErrorIs(t, sub.FetchGameDetails(context.Background()), ErrMetadata)
}

func TestSendScore(t *testing.T) {
	var gotAuth string
	var gotData map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		env, params := decodeRPC(t, r)
		assert.Equal(t, "game.saveWebGameplay", env.Method)
		gotData = params["gameplayData"].(map[string]interface{})
		fmt.Fprint(w, `{"jsonrpc":"2.0","result":{"surroundingRankings":[{"ranking":[
			{"rank":1,"score":5000,"user":{"id":1}},
			{"rank":2,"score":100,"user":{"id":777}}
		]}]}}`)
	}))
	defer server.Close()

	sub, err := testClient(server.URL).NewSubmission(testLink, 100, 60)
	require.NoError(t, err)
	sub.AuthToken = "tok-123"
	sub.UserID = 777
	sub.GameID = 42
	sub.ReleaseNumber = 7

	require.NoError(t, sub.SendScore(context.Background()))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, float64(42), gotData["gameId"])
	assert.Equal(t, float64(100), gotData["score"])
	assert.Equal(t, float64(60), gotData["playTime"])
	assert.Equal(t, "/game-bot/snake-"+testToken, gotData["gameUrl"])
	assert.Equal(t, float64(7), gotData["releaseNumber"])
	assert.Equal(t, "2022-04-23T14:15:19+04:30", gotData["createdTime"])
	assert.Equal(t, "game", gotData["gameplayOrigin"])
	assert.Equal(t, sub.Checksum, gotData["checksum"])

	meta := gotData["metadata"].(map[string]interface{})
	id := meta["gameplayId"].(float64)
	assert.GreaterOrEqual(t, id, float64(1))
	assert.LessOrEqual(t, id, float64(defaultGameplayIDMax))

	assert.False(t, sub.IsBanned())

	rank, ok := sub.UserRank()
	require.True(t, ok)
	assert.Equal(t, 2, rank)

	record, ok := sub.UserRecord()
	require.True(t, ok)
	assert.Equal(t, 100, record)
}

func TestIsBanned(t *testing.T) {
	sub := &Submission{}
	assert.True(t, sub.IsBanned(), "no response yet means banned")

	sub.response = []byte(`{"jsonrpc":"2.0","error":{"message":"cheater"}}`)
	assert.True(t, sub.IsBanned(), "error marker anywhere in the body means banned")

	// The heuristic is a plain substring scan, so an "error" inside any
	// value trips it too. That matches the original behaviour.
	sub.response = []byte(`{"jsonrpc":"2.0","result":{"game":{"name":"error hunter"}}}`)
	assert.True(t, sub.IsBanned())

	sub.response = []byte(`{"jsonrpc":"2.0","result":{"surroundingRankings":[]}}`)
	assert.False(t, sub.IsBanned())
}

func TestRankNotFound(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"banned response", `{"error":{"message":"nope"}}`},
		{"empty rankings", `{"result":{"surroundingRankings":[]}}`},
		{"no matching user", `{"result":{"surroundingRankings":[{"ranking":[{"rank":1,"score":10,"user":{"id":5}}]}]}}`},
		{"malformed rankings", `{"result":{"surroundingRankings":"what"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &Submission{UserID: 777, response: []byte(tc.response)}
			if _, ok := sub.UserRank(); ok {
				t.Error("UserRank found an entry, want not found")
			}
			if _, ok := sub.UserRecord(); ok {
				t.Error("UserRecord found an entry, want not found")
			}
		})
	}
}

func TestSubmitScorePipeline(t *testing.T) {
	var methods []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env, _ := decodeRPC(t, r)
		methods = append(methods, env.Method)
		switch env.Method {
		case methodBotLogin:
			fmt.Fprint(w, `{"result":{"tokens":{"authenticate":"tok"},"user":{"id":777,"personal":{}}}}`)
		case methodGameDetails:
			fmt.Fprint(w, `{"result":{"game":{"id":42,"name":"Snake","image":"img","release":{"number":7}}}}`)
		case methodSaveGameplay:
			fmt.Fprint(w, `{"result":{"surroundingRankings":[{"ranking":[{"rank":3,"score":100,"user":{"id":777}}]}]}}`)
		default:
			t.Errorf("unexpected method %q", env.Method)
		}
	}))
	defer server.Close()

	out, err := testClient(server.URL).SubmitScore(context.Background(), testLink, 100, 60)
	require.NoError(t, err)

	assert.Equal(t, []string{methodBotLogin, methodGameDetails, methodSaveGameplay}, methods)
	assert.Equal(t, "/game-bot/snake-"+testToken, out.GameURL)
	assert.Equal(t, "Snake", out.Title)
	assert.Equal(t, "img", out.Image)
	assert.Equal(t, 100, out.Score)
	assert.Equal(t, 3, out.Rank)
	assert.Equal(t, 100, out.Record)
	assert.False(t, out.Banned)
}

func TestSubmitScoreInvalidURL(t *testing.T) {
	_, err := NewClient().SubmitScore(context.Background(), "https://example.com/", 1, 1)
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestSubmitScoreBanned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env, _ := decodeRPC(t, r)
		switch env.Method {
		case methodBotLogin:
			fmt.Fprint(w, `{"result":{"tokens":{"authenticate":"tok"},"user":{"id":777,"personal":{}}}}`)
		case methodGameDetails:
			fmt.Fprint(w, `{"result":{"game":{"id":42,"name":"Snake","image":"img","release":{"number":7}}}}`)
		case methodSaveGameplay:
			fmt.Fprint(w, `{"error":{"code":-32001,"message":"suspicious gameplay"}}`)
		}
	}))
	defer server.Close()

	out, err := testClient(server.URL).SubmitScore(context.Background(), testLink, 999999, 12)
	require.NoError(t, err)
	assert.True(t, out.Banned)
	assert.Zero(t, out.Rank)
	assert.Zero(t, out.Record)
}

func TestUserAgentHeader(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"result":{"tokens":{"authenticate":"t"},"user":{"id":1,"personal":{}}}}`)
	}))
	defer server.Close()

	sub, err := testClient(server.URL).NewSubmission(testLink, 1, 1)
	require.NoError(t, err)
	require.NoError(t, sub.Login(context.Background()))

	assert.True(t, strings.HasPrefix(gotAgent, "Mozilla/5.0"), "user agent %q should look like a browser", gotAgent)
}
