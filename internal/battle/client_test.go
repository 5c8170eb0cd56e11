package battle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCounters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/counters", r.URL.Path)
		assert.Equal(t, "bot-alpha", r.URL.Query().Get("participant"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"wins": 12, "losses": 5, "draws": 1}`))
	}))
	defer server.Close()

	client := &APIClient{httpClient: &http.Client{Timeout: time.Second}, BaseURL: server.URL}
	counters, err := client.Counters(context.Background(), "bot-alpha")

	require.NoError(t, err)
	assert.Equal(t, Counters{Wins: 12, Losses: 5, Draws: 1}, counters)
}

func TestClientInitiateChallenge(t *testing.T) {
	var got challengeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/challenge", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := &APIClient{httpClient: &http.Client{Timeout: time.Second}, BaseURL: server.URL}
	err := client.InitiateChallenge(context.Background(), "bot-alpha", "bot-beta", "gen9ou")

	require.NoError(t, err)
	assert.Equal(t, challengeRequest{Challenger: "bot-alpha", Opponent: "bot-beta", Format: "gen9ou"}, got)
}

func TestClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay offline", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := &APIClient{httpClient: &http.Client{Timeout: time.Second}, BaseURL: server.URL}

	err := client.AcceptChallenge(context.Background(), "bot-beta", "bot-alpha", "gen9ou")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	_, err = client.Counters(context.Background(), "bot-alpha")
	require.Error(t, err)
}
