package aggregate

import (
	"testing"
	"time"

	"github.com/seojun-park/claudebar/internal/domain"
	"github.com/seojun-park/claudebar/internal/otlp"
)

func point(name string, ts time.Time, value float64, attrs map[string]string) otlp.MetricPoint {
	return otlp.MetricPoint{Name: name, Attrs: attrs, Time: ts, Value: value}
}

func TestSummarizeDispatch(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	points := []otlp.MetricPoint{
		point(domain.MetricCostUsage, now, 0.05, nil),
		point(domain.MetricTokenUsage, now, 100, map[string]string{"type": "input"}),
		point(domain.MetricTokenUsage, now, 50, map[string]string{"type": "output"}),
		point(domain.MetricTokenUsage, now, 2000, map[string]string{"type": "cacheRead"}),
		point(domain.MetricTokenUsage, now, 300, map[string]string{"type": "cacheCreation"}),
		point(domain.MetricSessionCount, now, 1, nil),
		point(domain.MetricActiveTime, now, 120, nil),
		point(domain.MetricLinesOfCode, now, 42, nil),
		point(domain.MetricCommitCount, now, 2, nil),
		point(domain.MetricPullRequestCount, now, 1, nil),
		point("claude_code.something.unknown", now, 999, nil),
	}
	events := []otlp.LogEvent{
		{Name: domain.EventUserPrompt, Time: now},
		{Name: domain.EventUserPrompt, Time: now},
		{Name: domain.EventAPIRequest, Time: now},
		{Name: "tool_result", Time: now},
	}

	sum := New(nil).Summarize(points, events, time.Time{})

	if sum.TotalCostUSD != 0.05 {
		t.Errorf("cost = %v", sum.TotalCostUSD)
	}
	if sum.InputTokens != 100 || sum.OutputTokens != 50 {
		t.Errorf("tokens = %d in / %d out", sum.InputTokens, sum.OutputTokens)
	}
	if sum.CacheReadTokens != 2000 || sum.CacheCreationTokens != 300 {
		t.Errorf("cache tokens = %d read / %d created", sum.CacheReadTokens, sum.CacheCreationTokens)
	}
	if sum.SessionCount != 1 {
		t.Errorf("sessions = %d", sum.SessionCount)
	}
	if sum.ActiveTimeSeconds != 120 {
		t.Errorf("active = %d", sum.ActiveTimeSeconds)
	}
	if sum.LinesOfCode != 42 || sum.CommitCount != 2 || sum.PullRequestCount != 1 {
		t.Errorf("loc/commits/prs = %d/%d/%d", sum.LinesOfCode, sum.CommitCount, sum.PullRequestCount)
	}
	if sum.PromptCount != 2 {
		t.Errorf("prompts = %d", sum.PromptCount)
	}
	if sum.APIRequestCount != 1 {
		t.Errorf("api requests = %d", sum.APIRequestCount)
	}
}

func TestSummarizeSinceFilter(t *testing.T) {
	since := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ts       time.Time
		wantCost float64
	}{
		{"before since is excluded", since.Add(-time.Second), 0},
		{"exactly at since is included", since, 0.01},
		{"after since is included", since.Add(time.Second), 0.01},
		{"no timestamp passes through", time.Time{}, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := []otlp.MetricPoint{point(domain.MetricCostUsage, tt.ts, 0.01, nil)}
			sum := New(nil).Summarize(points, nil, since)
			if sum.TotalCostUSD != tt.wantCost {
				t.Errorf("cost = %v, want %v", sum.TotalCostUSD, tt.wantCost)
			}
		})
	}
}

func TestSummarizeFutureSinceYieldsZero(t *testing.T) {
	now := time.Now().UTC()
	points := []otlp.MetricPoint{
		point(domain.MetricCostUsage, now, 0.01, nil),
		point(domain.MetricTokenUsage, now, 100, map[string]string{"type": "input"}),
	}
	sum := New(nil).Summarize(points, nil, now.Add(time.Hour))
	if !sum.IsZero() {
		t.Errorf("expected all-zero summary, got %+v", sum)
	}
}

func TestSummarizeTokenTypeFallback(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name       string
		attrs      map[string]string
		wantInput  int64
		wantOutput int64
	}{
		{"missing type counts as input", nil, 75, 0},
		{"legacy token_type attribute", map[string]string{"token_type": "output"}, 0, 75},
		{"unrecognized type counts as input", map[string]string{"type": "speculation"}, 75, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := []otlp.MetricPoint{point(domain.MetricTokenUsage, now, 75, tt.attrs)}
			sum := New(nil).Summarize(points, nil, time.Time{})
			if sum.InputTokens != tt.wantInput || sum.OutputTokens != tt.wantOutput {
				t.Errorf("tokens = %d in / %d out, want %d / %d",
					sum.InputTokens, sum.OutputTokens, tt.wantInput, tt.wantOutput)
			}
		})
	}
}

func TestSummarizeHourly(t *testing.T) {
	h0 := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	h1 := h0.Add(time.Hour)
	h2 := h0.Add(2 * time.Hour)

	points := []otlp.MetricPoint{
		point(domain.MetricCostUsage, h0.Add(5*time.Minute), 0.01, nil),
		point(domain.MetricCostUsage, h0.Add(55*time.Minute), 0.02, nil),
		point(domain.MetricTokenUsage, h1.Add(10*time.Minute), 100, map[string]string{"type": "input"}),
		point(domain.MetricCostUsage, h2.Add(30*time.Minute), 0.04, nil),
		// Untimestamped points cannot be bucketed.
		point(domain.MetricCostUsage, time.Time{}, 1.0, nil),
	}
	events := []otlp.LogEvent{
		{Name: domain.EventUserPrompt, Time: h1.Add(15 * time.Minute)},
		{Name: domain.EventUserPrompt, Time: time.Time{}},
	}

	agg := New(nil)
	buckets := agg.SummarizeHourly(points, events, time.Time{})

	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	for i, want := range []time.Time{h0, h1, h2} {
		if !buckets[i].HourStart.Equal(want) {
			t.Errorf("bucket %d hour = %v, want %v", i, buckets[i].HourStart, want)
		}
	}
	if got := buckets[0].TotalCostUSD; got != 0.03 {
		t.Errorf("bucket 0 cost = %v, want 0.03", got)
	}
	if buckets[1].InputTokens != 100 || buckets[1].PromptCount != 1 {
		t.Errorf("bucket 1 = %+v", buckets[1])
	}
	if buckets[2].TotalCostUSD != 0.04 {
		t.Errorf("bucket 2 cost = %v", buckets[2].TotalCostUSD)
	}

	// Summing all buckets must equal the flat aggregation over the
	// timestamped records with since = start of the earliest hour.
	var bucketCost float64
	var bucketTokens, bucketPrompts int64
	for _, b := range buckets {
		bucketCost += b.TotalCostUSD
		bucketTokens += b.InputTokens
		bucketPrompts += b.PromptCount
	}
	flat := agg.Summarize(points[:4], events[:1], h0)
	if bucketCost != flat.TotalCostUSD || bucketTokens != flat.InputTokens || bucketPrompts != flat.PromptCount {
		t.Errorf("bucket totals (%v, %d, %d) != flat totals (%v, %d, %d)",
			bucketCost, bucketTokens, bucketPrompts,
			flat.TotalCostUSD, flat.InputTokens, flat.PromptCount)
	}
}

func TestSummarizeHourlySparse(t *testing.T) {
	h0 := time.Date(2026, 8, 25, 3, 0, 0, 0, time.UTC)
	points := []otlp.MetricPoint{
		point(domain.MetricCostUsage, h0, 0.01, nil),
		point(domain.MetricCostUsage, h0.Add(5*time.Hour), 0.02, nil),
	}
	buckets := New(nil).SummarizeHourly(points, nil, time.Time{})
	if len(buckets) != 2 {
		t.Fatalf("gap hours must not produce buckets; got %d buckets", len(buckets))
	}
}
