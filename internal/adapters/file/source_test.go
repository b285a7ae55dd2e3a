package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func metricsLine(name, valueField, value, ts string, attrs string) string {
	return fmt.Sprintf(`{"resourceMetrics":[{"scopeMetrics":[{"metrics":[{"name":%q,"sum":{"dataPoints":[{%q:%s,"timeUnixNano":%q%s}]}}]}]}]}`,
		name, valueField, value, ts, attrs)
}

func writeExports(t *testing.T, now time.Time) (metricsPath, logsPath string) {
	t.Helper()
	dir := t.TempDir()
	metricsPath = filepath.Join(dir, "metrics.json")
	logsPath = filepath.Join(dir, "logs.json")

	ts := fmt.Sprintf("%d", now.UnixNano())
	typeAttr := func(v string) string {
		return fmt.Sprintf(`,"attributes":[{"key":"type","value":{"stringValue":%q}}]`, v)
	}
	metrics := metricsLine("claude_code.cost.usage", "asDouble", "0.01", ts, "") + "\n" +
		metricsLine("claude_code.token.usage", "asInt", `"100"`, ts, typeAttr("input")) + "\n" +
		metricsLine("claude_code.token.usage", "asInt", `"50"`, ts, typeAttr("output")) + "\n" +
		metricsLine("claude_code.session.count", "asInt", `"1"`, ts, "") + "\n"
	if err := os.WriteFile(metricsPath, []byte(metrics), 0o644); err != nil {
		t.Fatal(err)
	}

	logs := fmt.Sprintf(`{"resourceLogs":[{"scopeLogs":[{"logRecords":[{"timeUnixNano":%q,"body":{"stringValue":"user_prompt"}}]}]}]}`, ts)
	if err := os.WriteFile(logsPath, []byte(logs), 0o644); err != nil {
		t.Fatal(err)
	}
	return metricsPath, logsPath
}

func TestSourceSummary(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	metricsPath, logsPath := writeExports(t, now)
	src := NewSource(metricsPath, logsPath, nil)

	sum, err := src.Summary(context.Background(), now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalCostUSD != 0.01 {
		t.Errorf("cost = %v", sum.TotalCostUSD)
	}
	if sum.InputTokens != 100 || sum.OutputTokens != 50 {
		t.Errorf("tokens = %d in / %d out", sum.InputTokens, sum.OutputTokens)
	}
	if sum.SessionCount != 1 {
		t.Errorf("sessions = %d", sum.SessionCount)
	}
	if sum.PromptCount != 1 {
		t.Errorf("prompts = %d", sum.PromptCount)
	}
	if sum.LastUpdated == nil {
		t.Error("last updated should come from the export file mtime")
	}
}

func TestSourceSummaryFutureSince(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	metricsPath, logsPath := writeExports(t, now)
	src := NewSource(metricsPath, logsPath, nil)

	sum, err := src.Summary(context.Background(), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !sum.IsZero() {
		t.Errorf("expected all-zero summary, got %+v", sum)
	}
}

func TestSourceSummaryMissingFiles(t *testing.T) {
	dir := t.TempDir()
	src := NewSource(filepath.Join(dir, "no-metrics.json"), filepath.Join(dir, "no-logs.json"), nil)

	sum, err := src.Summary(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("missing exports should yield zero, not error: %v", err)
	}
	if !sum.IsZero() {
		t.Errorf("expected all-zero summary, got %+v", sum)
	}
	if sum.LastUpdated != nil {
		t.Error("last updated should be unset when no export exists")
	}
}

func TestSourceHourly(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Hour).Add(30 * time.Minute)
	metricsPath, logsPath := writeExports(t, now)
	src := NewSource(metricsPath, logsPath, nil)

	buckets, err := src.Hourly(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	wantHour := now.Truncate(time.Hour)
	if !buckets[0].HourStart.Equal(wantHour) {
		t.Errorf("hour = %v, want %v", buckets[0].HourStart, wantHour)
	}
	if buckets[0].InputTokens != 100 || buckets[0].PromptCount != 1 {
		t.Errorf("bucket = %+v", buckets[0])
	}
}
