// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/superb-owl/metrics"
	"github.com/danielhkuo/superb-owl/models"
)

// HistoricalGameID is the last resort game (Super Bowl LVIII).
const HistoricalGameID = "401547652"

// Config configures a Client. Zero values take the defaults.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	DefaultGameID string
	Clock         clockwork.Clock
	HTTPClient    *http.Client
}

// Client fetches NFL game state from the ESPN site API.
type Client struct {
	baseURL       string
	client        *http.Client
	timeout       time.Duration
	defaultGameID string
	clock         clockwork.Clock
	discovery     discoveryCache
}

func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:       cfg.BaseURL,
		client:        cfg.HTTPClient,
		timeout:       cfg.Timeout,
		defaultGameID: cfg.DefaultGameID,
		clock:         cfg.Clock,
	}
	if c.baseURL == "" {
		c.baseURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"
	}
	if c.client == nil {
		c.client = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = 6 * time.Second
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	return c
}

// Request names the game to fetch. Empty values fall through to the next source.
type Request struct {
	GameID             string
	BoardDefaultGameID *string
}

type Result struct {
	Snapshot   models.GameSnapshot
	LiveStatus string
}

// GameSnapshot never fails: any fetch or decode error yields a fallback snapshot.
func (c *Client) GameSnapshot(ctx context.Context, req Request) Result {
	gameID := c.ResolveGameID(ctx, req)

	payload, err := c.getJSON(ctx, "summary", "/summary?event="+url.QueryEscape(gameID))
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("espn fetch failed")
		metrics.FallbackSnapshotsTotal.Inc()
		return Result{
			Snapshot:   FallbackSnapshot(gameID, c.clock.Now().UTC()),
			LiveStatus: models.LiveStatusFallback,
		}
	}

	return Result{
		Snapshot:   Normalize(summaryEvent(payload), gameID, c.clock.Now().UTC()),
		LiveStatus: models.LiveStatusOK,
	}
}

// ResolveGameID picks the explicit id, then the board default, then the
// configured default, then a discovered id, then HistoricalGameID.
func (c *Client) ResolveGameID(ctx context.Context, req Request) string {
	if req.GameID != "" {
		return req.GameID
	}
	if req.BoardDefaultGameID != nil && *req.BoardDefaultGameID != "" {
		return *req.BoardDefaultGameID
	}
	if c.defaultGameID != "" {
		return c.defaultGameID
	}
	if id, ok := c.discover(ctx); ok {
		return id
	}
	return HistoricalGameID
}

// summaryEvent reshapes a summary payload into an event when it carries
// header.competitions.
func summaryEvent(payload any) any {
	root := object(payload)
	header := object(root["header"])
	if header == nil || header["competitions"] == nil {
		return payload
	}
	return map[string]any{
		"id":           header["id"],
		"competitions": header["competitions"],
		"status":       root["status"],
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := c.clock.Now()
	body, err := c.get(ctx, path)
	metrics.ESPNRequestLatency.Observe(c.clock.Since(start).Seconds())
	if err != nil {
		metrics.ESPNRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.ESPNRequestsTotal.WithLabelValues(endpoint, "decode_error").Inc()
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	metrics.ESPNRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ESPN returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
