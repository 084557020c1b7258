package espn

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
	"github.com/valyala/bytebufferpool"

	"github.com/rosterwire/contest-engine/internal/domain/roster"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
	"github.com/rosterwire/contest-engine/internal/platform/resilience"
	"github.com/rosterwire/contest-engine/internal/usecase"
)

const (
	defaultBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/flb"
	defaultTimeout = 5 * time.Second

	// The read API rejects requests without a browser-looking user agent.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36"
)

var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Season         int
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	season         int
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
		season:         cfg.Season,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Location string     `json:"location"`
	Nickname string     `json:"nickname"`
	Roster   rosterItem `json:"roster"`
}

type rosterItem struct {
	Entries []rosterEntryItem `json:"entries"`
}

type rosterEntryItem struct {
	PlayerID        int64           `json:"playerId"`
	LineupSlotID    int             `json:"lineupSlotId"`
	PlayerPoolEntry playerPoolEntry `json:"playerPoolEntry"`
}

type playerPoolEntry struct {
	Player playerItem `json:"player"`
}

type playerItem struct {
	FullName string `json:"fullName"`
}

type settingsEnvelope struct {
	Settings settingsItem `json:"settings"`
}

type settingsItem struct {
	Name           string             `json:"name"`
	RosterSettings rosterSettingsItem `json:"rosterSettings"`
}

type rosterSettingsItem struct {
	LineupSlotCounts map[string]int `json:"lineupSlotCounts"`
}

// TeamNames fetches the league's team id to display name mapping. Teams
// without an explicit name fall back to "location nickname", then to a
// synthetic "Team <id>" label.
func (c *Client) TeamNames(ctx context.Context, leagueID int, creds usecase.LeagueCredentials) (map[int]string, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	var payload teamsEnvelope
	if err := c.doJSON(ctx, leagueID, map[string]string{"view": "mTeam"}, creds, &payload); err != nil {
		return nil, fmt.Errorf("fetch teams league_id=%d: %w", leagueID, err)
	}

	names := make(map[int]string, len(payload.Teams))
	for _, t := range payload.Teams {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			name = strings.TrimSpace(t.Location + " " + t.Nickname)
		}
		if name == "" {
			name = fmt.Sprintf("Team %d", t.ID)
		}
		names[t.ID] = name
	}
	return names, nil
}

// DailyRoster fetches every team's lineup for one scoring period.
func (c *Client) DailyRoster(ctx context.Context, leagueID int, creds usecase.LeagueCredentials, scoringPeriod int) (roster.DailyRoster, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}
	if scoringPeriod <= 0 {
		return nil, fmt.Errorf("scoring period must be greater than zero")
	}

	query := map[string]string{
		"scoringPeriodId": strconv.Itoa(scoringPeriod),
		"view":            "mRoster",
	}
	var payload teamsEnvelope
	if err := c.doJSON(ctx, leagueID, query, creds, &payload); err != nil {
		return nil, fmt.Errorf("fetch roster league_id=%d period=%d: %w", leagueID, scoringPeriod, err)
	}

	daily := make(roster.DailyRoster, 0, len(payload.Teams))
	for _, t := range payload.Teams {
		team := roster.Team{TeamID: t.ID, Entries: make([]roster.Entry, 0, len(t.Roster.Entries))}
		for _, e := range t.Roster.Entries {
			team.Entries = append(team.Entries, roster.Entry{
				PlayerID:   e.PlayerID,
				PlayerName: strings.TrimSpace(e.PlayerPoolEntry.Player.FullName),
				LineupSlot: e.LineupSlotID,
			})
		}
		daily = append(daily, team)
	}
	return daily, nil
}

// LeagueSettings fetches the league's name and active pitcher slot ids,
// derived from the slots in the pitcher range with a nonzero count.
func (c *Client) LeagueSettings(ctx context.Context, leagueID int, creds usecase.LeagueCredentials) (usecase.LeagueSettings, error) {
	if leagueID <= 0 {
		return usecase.LeagueSettings{}, fmt.Errorf("league id must be greater than zero")
	}

	var payload settingsEnvelope
	if err := c.doJSON(ctx, leagueID, map[string]string{"view": "mSettings"}, creds, &payload); err != nil {
		return usecase.LeagueSettings{}, fmt.Errorf("fetch settings league_id=%d: %w", leagueID, err)
	}

	name := strings.TrimSpace(payload.Settings.Name)
	if name == "" {
		name = fmt.Sprintf("League %d", leagueID)
	}

	slots := make([]int, 0, 3)
	for key, count := range payload.Settings.RosterSettings.LineupSlotCounts {
		slot, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if slot >= 13 && slot <= 15 && count > 0 {
			slots = append(slots, slot)
		}
	}

	return usecase.LeagueSettings{Name: name, PitcherSlots: slots}, nil
}

func (c *Client) doJSON(ctx context.Context, leagueID int, query map[string]string, creds usecase.LeagueCredentials, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: lineup provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%d", c.baseURL, c.season, leagueID)
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	c.logger.DebugContext(ctx, "espn request", "curl", buildRequestPreview(fullURL))

	key := fullURL
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, creds)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errESPNTransient) {
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

func (c *Client) executeRequest(ctx context.Context, fullURL string, creds usecase.LeagueCredentials) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", browserUserAgent)
		req.AddCookie(&http.Cookie{Name: "espn_s2", Value: creds.S2})
		req.AddCookie(&http.Cookie{Name: "swid", Value: creds.SWID})

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errESPNTransient, sanitizeCredentialText(err.Error(), creds))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
				return nil, fmt.Errorf("%w: provider rejected credentials status=%d", usecase.ErrUnauthorized, resp.StatusCode)
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errESPNTransient, resp.StatusCode, abbreviateBody(raw))
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
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// buildRequestPreview renders the outbound call as a copy-pasteable curl
// line with the credential cookies masked.
func buildRequestPreview(fullURL string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart(shellQuote(fullURL))
	appendPart("-H")
	appendPart(shellQuote("Accept: application/json"))
	appendPart("-H")
	appendPart(shellQuote("Cookie: espn_s2=***; SWID=***"))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func sanitizeCredentialText(value string, creds usecase.LeagueCredentials) string {
	value = strings.TrimSpace(value)
	if creds.S2 != "" {
		value = strings.ReplaceAll(value, creds.S2, "REDACTED")
	}
	if creds.SWID != "" {
		value = strings.ReplaceAll(value, creds.SWID, "REDACTED")
	}
	return value
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
