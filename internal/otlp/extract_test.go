package otlp

import (
	"testing"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/pdata/pmetric"
)

func TestExtractPointsSumAndGauge(t *testing.T) {
	ts := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

	md := pmetric.NewMetrics()
	ms := md.ResourceMetrics().AppendEmpty().ScopeMetrics().AppendEmpty().Metrics()

	sum := ms.AppendEmpty()
	sum.SetName("claude_code.cost.usage")
	dp := sum.SetEmptySum().DataPoints().AppendEmpty()
	dp.SetDoubleValue(0.25)
	dp.SetTimestamp(pcommon.NewTimestampFromTime(ts))
	dp.Attributes().PutStr("model", "claude-sonnet-4-20250514")

	gauge := ms.AppendEmpty()
	gauge.SetName("claude_code.token.usage")
	gdp := gauge.SetEmptyGauge().DataPoints().AppendEmpty()
	gdp.SetIntValue(150)

	points := ExtractPoints([]pmetric.Metrics{md})
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	if points[0].Value != 0.25 {
		t.Errorf("sum value = %v", points[0].Value)
	}
	if !points[0].Time.Equal(ts) {
		t.Errorf("sum time = %v, want %v", points[0].Time, ts)
	}
	if points[1].Value != 150 {
		t.Errorf("gauge value = %v", points[1].Value)
	}
	if !points[1].Time.IsZero() {
		t.Errorf("gauge without timestamp should have zero time, got %v", points[1].Time)
	}
}

func TestExtractPointsMissingAttribute(t *testing.T) {
	md := pmetric.NewMetrics()
	m := md.ResourceMetrics().AppendEmpty().ScopeMetrics().AppendEmpty().Metrics().AppendEmpty()
	m.SetName("claude_code.token.usage")
	m.SetEmptySum().DataPoints().AppendEmpty().SetIntValue(10)

	points := ExtractPoints([]pmetric.Metrics{md})
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if _, ok := points[0].Attr("type"); ok {
		t.Error("absent attribute should report !ok")
	}
}

func TestExtractEventsBodyAndAttributeFallback(t *testing.T) {
	ts := time.Date(2026, 8, 25, 11, 0, 0, 0, time.UTC)

	ld := plog.NewLogs()
	lrs := ld.ResourceLogs().AppendEmpty().ScopeLogs().AppendEmpty().LogRecords()

	withBody := lrs.AppendEmpty()
	withBody.Body().SetStr("user_prompt")
	withBody.SetTimestamp(pcommon.NewTimestampFromTime(ts))

	withAttr := lrs.AppendEmpty()
	withAttr.Attributes().PutStr("event.name", "api_request")
	withAttr.SetObservedTimestamp(pcommon.NewTimestampFromTime(ts.Add(time.Minute)))

	unnamed := lrs.AppendEmpty()
	unnamed.SetTimestamp(pcommon.NewTimestampFromTime(ts))

	events := ExtractEvents([]plog.Logs{ld})
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Name != "user_prompt" || !events[0].Time.Equal(ts) {
		t.Errorf("event 0 = %+v", events[0])
	}
	if events[1].Name != "api_request" || !events[1].Time.Equal(ts.Add(time.Minute)) {
		t.Errorf("event 1 = %+v", events[1])
	}
	if events[2].Name != "" {
		t.Errorf("unnamed event should pass through with empty name, got %q", events[2].Name)
	}
}
