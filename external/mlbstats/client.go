package mlbstats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
	"github.com/rosterwire/contest-engine/internal/platform/resilience"
	"github.com/rosterwire/contest-engine/internal/usecase"
)

const (
	defaultBaseURL = "https://statsapi.mlb.com/api/v1"
	defaultTimeout = 5 * time.Second
)

var errStatsTransient = crerr.New("mlbstats transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type searchEnvelope struct {
	People []searchPerson `json:"people"`
}

type searchPerson struct {
	ID int64 `json:"id"`
}

type gameLogEnvelope struct {
	Stats []gameLogStats `json:"stats"`
}

type gameLogStats struct {
	Splits []gamelog.Entry `json:"splits"`
}

// SearchPlayerID resolves a player name to the provider's canonical id.
// The first active match wins; no match is not an error.
func (c *Client) SearchPlayerID(ctx context.Context, name string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, nil
	}

	query := map[string]string{
		"names":   name,
		"sportId": "1",
		"active":  "true",
	}
	var payload searchEnvelope
	if err := c.doJSON(ctx, "/people/search", query, &payload); err != nil {
		return 0, false, fmt.Errorf("search player %q: %w", name, err)
	}
	if len(payload.People) == 0 {
		return 0, false, nil
	}
	return payload.People[0].ID, true, nil
}

// GameLog fetches a player's full-season game log for one stat group. A
// payload without the expected log structure is an error so callers can
// skip the player.
func (c *Client) GameLog(ctx context.Context, canonicalID int64, season int, group stats.Group) ([]gamelog.Entry, error) {
	if canonicalID <= 0 {
		return nil, fmt.Errorf("canonical player id must be greater than zero")
	}

	path := fmt.Sprintf("/people/%d/stats", canonicalID)
	query := map[string]string{
		"stats":  "gameLog",
		"season": strconv.Itoa(season),
		"group":  string(group),
	}
	var payload gameLogEnvelope
	if err := c.doJSON(ctx, path, query, &payload); err != nil {
		return nil, fmt.Errorf("fetch game log player_id=%d season=%d group=%s: %w", canonicalID, season, group, err)
	}
	if len(payload.Stats) == 0 {
		return nil, fmt.Errorf("game log missing from payload player_id=%d season=%d group=%s", canonicalID, season, group)
	}
	return payload.Stats[0].Splits, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "mlbstats circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: statistics provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errStatsTransient) {
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

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errStatsTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errStatsTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errStatsTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "mlbstats request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
