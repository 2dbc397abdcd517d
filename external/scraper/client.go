package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

const defaultTimeout = 20 * time.Second

var errScraperTransient = errors.New("scraper transient failure")

// ClientConfig configures an HTTP-backed Source.
type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *slog.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches match summaries and scorecards from an upstream cricket
// data provider, with bounded retries, an optional circuit breaker, and
// request deduplication for identical in-flight lookups.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) ListRecentMatches(ctx context.Context, club string, since time.Time) ([]usecase.ExternalMatchSummary, error) {
	values := url.Values{}
	values.Set("club", club)
	values.Set("since", strconv.FormatInt(since.Unix(), 10))

	var payload struct {
		Matches []struct {
			MatchID  string `json:"match_id"`
			Club     string `json:"club"`
			PlayedAt int64  `json:"played_at"`
		} `json:"matches"`
	}
	if err := c.getJSON(ctx, "/matches", values, &payload); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalMatchSummary, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		out = append(out, usecase.ExternalMatchSummary{
			MatchID:  m.MatchID,
			Club:     m.Club,
			PlayedAt: time.Unix(m.PlayedAt, 0).UTC(),
		})
	}
	return out, nil
}

func (c *Client) FetchScorecard(ctx context.Context, matchID string) (usecase.ExternalScorecard, error) {
	if matchID == "" {
		return usecase.ExternalScorecard{}, fmt.Errorf("match id is required")
	}

	var payload struct {
		Batting []struct {
			PlayerName string `json:"player_name"`
			Runs       int    `json:"runs"`
			BallsFaced int    `json:"balls_faced"`
			Dismissed  bool   `json:"dismissed"`
		} `json:"batting"`
		Bowling []struct {
			PlayerName   string `json:"player_name"`
			BallsBowled  int    `json:"balls_bowled"`
			RunsConceded int    `json:"runs_conceded"`
			Wickets      int    `json:"wickets"`
			Maidens      int    `json:"maidens"`
		} `json:"bowling"`
		Fielding []struct {
			PlayerName string `json:"player_name"`
			Catches    int    `json:"catches"`
			Stumpings  int    `json:"stumpings"`
			Runouts    int    `json:"runouts"`
		} `json:"fielding"`
	}
	if err := c.getJSON(ctx, "/matches/"+url.PathEscape(matchID)+"/scorecard", nil, &payload); err != nil {
		return usecase.ExternalScorecard{}, err
	}

	sc := usecase.ExternalScorecard{MatchID: matchID}
	for _, b := range payload.Batting {
		sc.Batting = append(sc.Batting, usecase.ExternalBattingRow{
			PlayerName: b.PlayerName, Runs: b.Runs, BallsFaced: b.BallsFaced, Dismissed: b.Dismissed,
		})
	}
	for _, b := range payload.Bowling {
		sc.Bowling = append(sc.Bowling, usecase.ExternalBowlingRow{
			PlayerName:   b.PlayerName,
			BallsBowled:  b.BallsBowled,
			RunsConceded: b.RunsConceded,
			Wickets:      b.Wickets,
			Maidens:      b.Maidens,
		})
	}
	for _, f := range payload.Fielding {
		sc.Fielding = append(sc.Fielding, usecase.ExternalFieldingRow{
			PlayerName: f.PlayerName, Catches: f.Catches, Stumpings: f.Stumpings, Runouts: f.Runouts,
		})
	}
	return sc, nil
}

func (c *Client) getJSON(ctx context.Context, path string, values url.Values, target any) error {
	fullURL := c.baseURL + path
	if values != nil {
		fullURL += "?" + values.Encode()
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && errors.Is(reqErr, errScraperTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if c.circuitEnabled && c.breaker.Allow() != nil {
		return nil, fmt.Errorf("%w: circuit open", errScraperTransient)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set("authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errScraperTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errScraperTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errScraperTransient, resp.StatusCode, abbreviate(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviate(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviate(raw []byte) string {
	const limit = 256
	if len(raw) <= limit {
		return string(raw)
	}
	return string(bytes.TrimSpace(raw[:limit])) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
