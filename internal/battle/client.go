package battle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// APIClient talks to the battle relay server over HTTP.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewClient creates a relay client against baseURL.
func NewClient(baseURL string) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

var _ Client = (*APIClient)(nil)

type challengeRequest struct {
	Challenger string `json:"challenger"`
	Opponent   string `json:"opponent"`
	Format     string `json:"format"`
}

type ladderRequest struct {
	Participant string `json:"participant"`
	Games       int    `json:"games"`
}

// InitiateChallenge tells the relay to have challenger challenge
// opponent in the given format.
func (c *APIClient) InitiateChallenge(ctx context.Context, challenger, opponent, format string) error {
	log.Debug("Initiating challenge", "challenger", challenger, "opponent", opponent, "format", format)
	return c.post(ctx, "/api/challenge", challengeRequest{Challenger: challenger, Opponent: opponent, Format: format})
}

// AcceptChallenge tells the relay to have opponent accept challenger's
// pending challenge.
func (c *APIClient) AcceptChallenge(ctx context.Context, opponent, challenger, format string) error {
	log.Debug("Accepting challenge", "opponent", opponent, "challenger", challenger, "format", format)
	return c.post(ctx, "/api/accept", challengeRequest{Challenger: challenger, Opponent: opponent, Format: format})
}

// EnterLadder puts a participant on the public ladder for n games.
func (c *APIClient) EnterLadder(ctx context.Context, participant string, n int) error {
	log.Debug("Entering ladder", "participant", participant, "games", n)
	return c.post(ctx, "/api/ladder", ladderRequest{Participant: participant, Games: n})
}

// Counters reads a participant's lifetime battle counters.
func (c *APIClient) Counters(ctx context.Context, participant string) (Counters, error) {
	endpoint := fmt.Sprintf("%s/api/counters?participant=%s", c.BaseURL, url.QueryEscape(participant))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Counters{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Counters{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from battle relay", "status", resp.StatusCode, "body", string(body))
		return Counters{}, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var counters Counters
	if err := json.NewDecoder(resp.Body).Decode(&counters); err != nil {
		return Counters{}, fmt.Errorf("failed to decode counters: %w", err)
	}
	return counters, nil
}

func (c *APIClient) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from battle relay", "path", path, "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
	return nil
}
