package prometheus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seojun-park/claudebar/internal/domain"
)

// Metric families for Claude Code native OTEL metrics, as named after a
// Prometheus scrape of the collector's exporter.
const (
	costMetric        = "claude_code_cost_usage_USD_total"
	tokenMetric       = "claude_code_token_usage_tokens_total"
	sessionMetric     = "claude_code_session_count_total"
	activeTimeMetric  = "claude_code_active_time_total_seconds_total"
	apiRequestMetric  = "claude_code_api_request_count_total"
	linesMetric       = "claude_code_lines_of_code_count_total"
	commitMetric      = "claude_code_commit_count_total"
	pullRequestMetric = "claude_code_pull_request_count_total"
)

const tokenTypeLabel = "type"

// Client aggregates usage by querying a Prometheus-compatible HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pricing    domain.ModelPricing
	now        func() time.Time
}

// NewClient creates a Prometheus-backed usage source. The timeout bounds
// every probe and query so a stalled backend fails the pass fast.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		pricing:    domain.DefaultPricing,
		now:        time.Now,
	}
}

// queryResponse is the JSON envelope of the Prometheus query API.
type queryResponse struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string        `json:"resultType"`
		Result     []queryResult `json:"result"`
	} `json:"data"`
}

type queryResult struct {
	Metric map[string]string `json:"metric"`
	Value  []interface{}     `json:"value"`
	Values [][]interface{}   `json:"values"`
}

// Healthy probes {base}/-/healthy. Failing here short-circuits a pass before
// any doomed queries are issued.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/-/healthy", nil)
	if err != nil {
		return fmt.Errorf("creating health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.UnreachableError{Endpoint: c.baseURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &domain.UnreachableError{
			Endpoint: c.baseURL,
			Err:      fmt.Errorf("health probe returned status %d", resp.StatusCode),
		}
	}
	return nil
}

// Summary queries each metric family's increase over [since, now]. The
// families are independent, so they run concurrently; one failed family fails
// the whole pass, because a silently zero-filled field would present a
// partially wrong total as complete.
func (c *Client) Summary(ctx context.Context, since time.Time) (*domain.UsageSummary, error) {
	if err := c.Healthy(ctx); err != nil {
		return nil, err
	}

	window := int64(c.now().Sub(since).Seconds())
	if window < 1 {
		window = 1
	}

	var (
		cost         float64
		tokens       map[string]float64
		sessions     float64
		activeTime   float64
		apiRequests  float64
		lines        float64
		commits      float64
		pullRequests float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cost, err = c.queryScalar(gctx, increase(costMetric, window))
		return err
	})
	g.Go(func() (err error) {
		expr := fmt.Sprintf("sum by (%s) (increase(%s[%ds]))", tokenTypeLabel, tokenMetric, window)
		tokens, err = c.queryByLabel(gctx, expr, tokenTypeLabel)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = c.queryScalar(gctx, increase(sessionMetric, window))
		return err
	})
	g.Go(func() (err error) {
		activeTime, err = c.queryScalar(gctx, increase(activeTimeMetric, window))
		return err
	})
	g.Go(func() (err error) {
		apiRequests, err = c.queryScalar(gctx, increase(apiRequestMetric, window))
		return err
	})
	g.Go(func() (err error) {
		lines, err = c.queryScalar(gctx, increase(linesMetric, window))
		return err
	})
	g.Go(func() (err error) {
		commits, err = c.queryScalar(gctx, increase(commitMetric, window))
		return err
	})
	g.Go(func() (err error) {
		pullRequests, err = c.queryScalar(gctx, increase(pullRequestMetric, window))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &domain.UsageSummary{
		TotalCostUSD:      cost,
		SessionCount:      int64(sessions),
		ActiveTimeSeconds: int64(activeTime),
		APIRequestCount:   int64(apiRequests),
		LinesOfCode:       int64(lines),
		CommitCount:       int64(commits),
		PullRequestCount:  int64(pullRequests),
	}
	for tokenType, v := range tokens {
		addTokens(sum, tokenType, v)
	}

	// The cost family is not always scraped; derive it from the token
	// breakdown when it reports nothing.
	if sum.TotalCostUSD == 0 && sum.TotalTokens() > 0 {
		sum.TotalCostUSD = c.pricing.CalculateCost(
			sum.InputTokens, sum.OutputTokens, sum.CacheReadTokens, sum.CacheCreationTokens)
	}

	ts := c.now()
	sum.LastUpdated = &ts
	return sum, nil
}

// Hourly queries each family's hourly increase over [since, now] as a range
// query with a one-hour step and reshapes the matrix into sparse buckets.
// Like Summary, the families run concurrently and fail fast.
func (c *Client) Hourly(ctx context.Context, since time.Time) ([]domain.HourlyUsage, error) {
	if err := c.Healthy(ctx); err != nil {
		return nil, err
	}
	end := c.now()

	buckets := make(map[time.Time]*domain.HourlyUsage)
	bucket := func(ts time.Time) *domain.HourlyUsage {
		hour := ts.UTC().Truncate(time.Hour)
		b, ok := buckets[hour]
		if !ok {
			b = &domain.HourlyUsage{HourStart: hour}
			buckets[hour] = b
		}
		return b
	}

	families := []struct {
		expr  string
		apply func(b *domain.HourlyUsage, labels map[string]string, v float64)
	}{
		{
			expr: fmt.Sprintf("sum(increase(%s[1h]))", costMetric),
			apply: func(b *domain.HourlyUsage, _ map[string]string, v float64) {
				b.TotalCostUSD += v
			},
		},
		{
			expr: fmt.Sprintf("sum by (%s) (increase(%s[1h]))", tokenTypeLabel, tokenMetric),
			apply: func(b *domain.HourlyUsage, labels map[string]string, v float64) {
				addTokens(&b.UsageSummary, labels[tokenTypeLabel], v)
			},
		},
		{
			expr: fmt.Sprintf("sum(increase(%s[1h]))", sessionMetric),
			apply: func(b *domain.HourlyUsage, _ map[string]string, v float64) {
				b.SessionCount += int64(v)
			},
		},
		{
			expr: fmt.Sprintf("sum(increase(%s[1h]))", activeTimeMetric),
			apply: func(b *domain.HourlyUsage, _ map[string]string, v float64) {
				b.ActiveTimeSeconds += int64(v)
			},
		},
		{
			expr: fmt.Sprintf("sum(increase(%s[1h]))", apiRequestMetric),
			apply: func(b *domain.HourlyUsage, _ map[string]string, v float64) {
				b.APIRequestCount += int64(v)
			},
		},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range families {
		f := f
		g.Go(func() error {
			results, err := c.queryRange(gctx, f.expr, since, end, time.Hour)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, r := range results {
				for _, pair := range r.Values {
					ts, v, err := parseSample(pair)
					if err != nil || v == 0 {
						continue
					}
					f.apply(bucket(ts), r.Metric, v)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.HourlyUsage, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HourStart.Before(out[j].HourStart) })
	return out, nil
}

func increase(metric string, windowSeconds int64) string {
	return fmt.Sprintf("sum(increase(%s[%ds]))", metric, windowSeconds)
}

func addTokens(sum *domain.UsageSummary, tokenType string, v float64) {
	switch tokenType {
	case domain.TokenTypeOutput:
		sum.OutputTokens += int64(v)
	case domain.TokenTypeCacheRead:
		sum.CacheReadTokens += int64(v)
	case domain.TokenTypeCacheCreation:
		sum.CacheCreationTokens += int64(v)
	default:
		// Untyped token series count as input, same as the file backend.
		sum.InputTokens += int64(v)
	}
}

// queryScalar runs an instant query and returns the first sample's value.
// An empty result is zero: a family that was never scraped is absence, not
// an error.
func (c *Client) queryScalar(ctx context.Context, query string) (float64, error) {
	results, err := c.query(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	_, v, err := parseSample(results[0].Value)
	if err != nil {
		return 0, fmt.Errorf("query %q: %w", query, err)
	}
	return v, nil
}

// queryByLabel runs an instant query and keys each series' value by the given
// label.
func (c *Client) queryByLabel(ctx context.Context, query, label string) (map[string]float64, error) {
	results, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}
	values := make(map[string]float64, len(results))
	for _, r := range results {
		_, v, err := parseSample(r.Value)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", query, err)
		}
		values[r.Metric[label]] += v
	}
	return values, nil
}

func (c *Client) query(ctx context.Context, query string) ([]queryResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("time", strconv.FormatInt(c.now().Unix(), 10))
	return c.get(ctx, "/api/v1/query", params)
}

func (c *Client) queryRange(ctx context.Context, query string, start, end time.Time, step time.Duration) ([]queryResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("start", strconv.FormatInt(start.Unix(), 10))
	params.Set("end", strconv.FormatInt(end.Unix(), 10))
	params.Set("step", strconv.FormatInt(int64(step.Seconds()), 10))
	return c.get(ctx, "/api/v1/query_range", params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]queryResult, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UnreachableError{Endpoint: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if qr.Status != "success" {
		return nil, fmt.Errorf("query failed: %s", qr.Status)
	}
	return qr.Data.Result, nil
}

// parseSample decodes one [timestamp, "value"] pair.
func parseSample(pair []interface{}) (time.Time, float64, error) {
	if len(pair) < 2 {
		return time.Time{}, 0, fmt.Errorf("unexpected sample format")
	}
	ts, ok := pair[0].(float64)
	if !ok {
		return time.Time{}, 0, fmt.Errorf("unexpected timestamp type")
	}
	valueStr, ok := pair[1].(string)
	if !ok {
		return time.Time{}, 0, fmt.Errorf("unexpected value type")
	}
	v, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parsing value: %w", err)
	}
	return time.Unix(int64(ts), 0).UTC(), v, nil
}
