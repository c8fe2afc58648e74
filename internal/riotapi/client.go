package riotapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const (
	defaultBaseURL = "https://europe.api.riotgames.com"
	defaultTimeout = 15 * time.Second
	default429Wait = 10 * time.Second
)

// Client is the rate-limited Riot API client (C2). It holds no mutable
// state of its own beyond a reference to the shared Limiter (C1), mirroring
// the teacher's riot.Client "cheap to construct, shares a limiter" model
// but with the limiter injected rather than embedded, per §9's guidance.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *Limiter
}

// NewClient constructs a Client reading RIOT_API_KEY from the environment.
// longLimit is the long-window (120s) request budget, e.g. --max-req-per-2min.
func NewClient(longLimit int) (*Client, error) {
	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    NewLimiter(longLimit),
	}, nil
}

// NewClientWithLimiter constructs a Client sharing an already-constructed
// Limiter, the multi-client case §4.2 describes as "last-writer-wins".
func NewClientWithLimiter(limiter *Limiter) (*Client, error) {
	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    limiter,
	}, nil
}

// Limiter exposes the client's shared rate limiter for reuse by other
// clients (NewClientWithLimiter), or reconfiguration via SetLongLimit.
func (c *Client) Limiter() *Limiter { return c.limiter }

// ResolveAccount resolves a Riot ID (gameName#tagLine) to an account/PUUID.
func (c *Client) ResolveAccount(ctx context.Context, gameName, tagLine string) (*AccountResponse, error) {
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s", url.PathEscape(gameName), url.PathEscape(tagLine))
	var out AccountResponse
	if err := c.doRequest(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMatchIDs fetches up to count match ids for puuid, most recent first.
func (c *Client) ListMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d", url.PathEscape(puuid), count)
	var out []string
	if err := c.doRequest(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMatch fetches a single match document by id.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchDocument, error) {
	path := fmt.Sprintf("/lol/match/v5/matches/%s", url.PathEscape(matchID))
	var out MatchDocument
	if err := c.doRequest(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSoloQueueTier looks up a player's solo-queue tier. It returns
// ("", nil) when the player has no ranked-solo entry, matching §4.4's
// "absent tier passes the filter" rule.
func (c *Client) GetSoloQueueTier(ctx context.Context, puuid string) (string, error) {
	path := fmt.Sprintf("/lol/league/v4/entries/by-puuid/%s", url.PathEscape(puuid))
	var entries []LeagueEntry
	if err := c.doRequest(ctx, path, &entries); err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.QueueType == "RANKED_SOLO_5x5" {
			return e.Tier, nil
		}
	}
	return "", nil
}

// doRequest implements the common request discipline of §4.2: credential
// header, limiter acquisition, single Retry-After-aware retry on 429,
// HttpStatusError otherwise, JSON decode on success.
//
// Grounded on internal/riot.Client.doRequest for the request shape, and
// internal/discord.WebhookClient.sendPayload for the Retry-After parsing
// and ctx-aware wait (see DESIGN.md).
func (c *Client) doRequest(ctx context.Context, path string, out interface{}) error {
	fullURL := c.baseURL + path

	var lastStatus int
	for attempt := 0; attempt < 2; attempt++ {
		if err := c.limiter.Acquire(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return &TransportError{Cause: err}
		}
		req.Header.Set("X-Riot-Token", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &TransportError{Cause: err}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastStatus = resp.StatusCode
			wait := default429Wait
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					wait = time.Duration(secs) * time.Second
				}
			}
			resp.Body.Close()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return &HttpStatusError{Code: resp.StatusCode, URL: fullURL}
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return &TransportError{Cause: err}
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &DecodeError{Cause: err, PathOrURL: fullURL}
		}
		return nil
	}

	if lastStatus == http.StatusTooManyRequests {
		return &TooManyRequestsError{URL: fullURL}
	}
	return &HttpStatusError{Code: lastStatus, URL: fullURL}
}
