// Package fetch downloads the season tables from the stats provider.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/okian/pointsplus/internal/adapters/source"
	"github.com/okian/pointsplus/pkg/logger"
	"github.com/okian/pointsplus/pkg/metrics"
)

// Defaults for a new client.
const (
	DefaultBaseURL     = "https://stats.nba.com/stats"
	DefaultRetries     = 3
	DefaultDelay       = 600 * time.Millisecond
	DefaultBackoffBase = 2 * time.Second
	DefaultTimeout     = 30 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (pointsplus)"
	maxErrorBody       = 512
)

// Endpoint is one provider resource and the table it fills.
type Endpoint struct {
	Name   string
	Path   string
	Table  string
	Params url.Values
}

// Endpoints returns the four resources a season run needs.
func Endpoints(season string) []Endpoint {
	const regular = "Regular Season"
	return []Endpoint{
		{
			Name: "leaguegamelog", Path: "/leaguegamelog", Table: source.GameLogs,
			Params: url.Values{
				"Season": {season}, "SeasonType": {regular},
				"PlayerOrTeam": {"P"}, "LeagueID": {"00"},
				"Direction": {"ASC"}, "Sorter": {"DATE"},
			},
		},
		{
			Name: "leaguedashteamstats", Path: "/leaguedashteamstats", Table: source.TeamStats,
			Params: dashParams(season, regular),
		},
		{
			Name: "playerindex", Path: "/playerindex", Table: source.PlayerIndex,
			Params: url.Values{"Season": {season}, "LeagueID": {"00"}},
		},
		{
			Name: "leaguedashplayerstats", Path: "/leaguedashplayerstats", Table: source.PlayerAdvanced,
			Params: dashParams(season, regular),
		},
	}
}

func dashParams(season, seasonType string) url.Values {
	return url.Values{
		"Season": {season}, "SeasonType": {seasonType},
		"MeasureType": {"Advanced"}, "PerMode": {"PerGame"},
		"LeagueID": {"00"}, "LastNGames": {"0"}, "Month": {"0"},
		"OpponentTeamID": {"0"}, "PaceAdjust": {"N"}, "Period": {"0"},
		"PlusMinus": {"N"}, "Rank": {"N"},
	}
}

// Client fetches provider result sets with bounded retries.
type Client struct {
	http        *http.Client
	baseURL     string
	userAgent   string
	retries     int
	delay       time.Duration
	backoffBase time.Duration
	log         logger.Logger
}

// NewClient creates a client with defaults overridden by opts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: DefaultTimeout},
		baseURL:     DefaultBaseURL,
		userAgent:   defaultUserAgent,
		retries:     DefaultRetries,
		delay:       DefaultDelay,
		backoffBase: DefaultBackoffBase,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll downloads every endpoint in order and saves each table to sink.
// It stops at the first endpoint that still fails after all attempts.
func (c *Client) FetchAll(ctx context.Context, endpoints []Endpoint, sink source.Sink) error {
	for _, ep := range endpoints {
		t, err := c.Fetch(ctx, ep)
		if err != nil {
			return err
		}
		if err := sink.Save(ctx, t); err != nil {
			return fmt.Errorf("save %s: %w", ep.Table, err)
		}
		c.log.Info(ctx, "table fetched",
			logger.String("endpoint", ep.Name),
			logger.String("table", ep.Table),
			logger.Int("rows", t.Len()))
	}
	return nil
}

// Fetch downloads one endpoint, retrying transient failures with
// exponential backoff. Client errors other than 429 are not retried.
func (c *Client) Fetch(ctx context.Context, ep Endpoint) (*source.Table, error) {
	var t *source.Table
	op := func() error {
		var err error
		t, err = c.fetchOnce(ctx, ep)
		if err != nil {
			metrics.RecordFetchAttempt(ep.Name, "error")
			return err
		}
		metrics.RecordFetchAttempt(ep.Name, "ok")
		return nil
	}
	notify := func(err error, wait time.Duration) {
		metrics.RecordFetchRetry()
		c.log.Warn(ctx, "fetch attempt failed",
			logger.String("endpoint", ep.Name),
			logger.String("retryIn", wait.String()),
			logger.Error(err))
	}

	if err := backoff.RetryNotify(op, c.policy(ctx), notify); err != nil {
		return nil, fmt.Errorf("%s: %w", ep.Name, err)
	}

	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.delay):
		}
	}
	return t, nil
}

func (c *Client) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.backoffBase
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retries-1)), ctx)
}

func (c *Client) fetchOnce(ctx context.Context, ep Endpoint) (*source.Table, error) {
	u := strings.TrimRight(c.baseURL, "/") + ep.Path
	if len(ep.Params) > 0 {
		u += "?" + ep.Params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %w", ErrUpstream, err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := fmt.Errorf("%w: GET %s: status %d body=%s", ErrUpstream, ep.Path, resp.StatusCode, string(body))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	t, err := Decode(ep.Table, resp.Body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return t, nil
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rowSet"`
}

type envelope struct {
	ResultSets []resultSet `json:"resultSets"`
	ResultSet  *resultSet  `json:"resultSet"`
}

// Decode reads a provider response and returns the first result set as a
// table named name.
func Decode(name string, r io.Reader) (*source.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	var rs *resultSet
	switch {
	case len(env.ResultSets) > 0:
		rs = &env.ResultSets[0]
	case env.ResultSet != nil:
		rs = env.ResultSet
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoResultSet, name)
	}

	rows := make([][]string, len(rs.Rows))
	for i, raw := range rs.Rows {
		rec := make([]string, len(raw))
		for j, v := range raw {
			rec[j] = cell(v)
		}
		rows[i] = rec
	}
	return source.NewTable(name, rs.Headers, rows), nil
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
