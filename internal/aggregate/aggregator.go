package aggregate

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/seojun-park/claudebar/internal/domain"
	"github.com/seojun-park/claudebar/internal/otlp"
)

// Aggregator folds flattened metric points and log events into usage
// summaries. It is stateless between folds; every call starts from zero.
type Aggregator struct {
	logger *zap.Logger
}

// New creates an aggregator. A nil logger disables logging.
func New(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

// Summarize folds all records with a timestamp at or after since into one
// summary. A zero since disables filtering; records without a timestamp
// always pass the filter.
func (a *Aggregator) Summarize(points []otlp.MetricPoint, events []otlp.LogEvent, since time.Time) domain.UsageSummary {
	var sum domain.UsageSummary
	for _, p := range points {
		if excluded(p.Time, since) {
			continue
		}
		a.foldPoint(&sum, p)
	}
	for _, e := range events {
		if excluded(e.Time, since) {
			continue
		}
		foldEvent(&sum, e)
	}
	return sum
}

// SummarizeHourly buckets records by the top of their hour, in UTC. Records
// without a timestamp cannot be bucketed and are dropped. Buckets are created
// lazily, so hours with no data produce no bucket; the result is sorted
// ascending by hour.
func (a *Aggregator) SummarizeHourly(points []otlp.MetricPoint, events []otlp.LogEvent, since time.Time) []domain.HourlyUsage {
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

	for _, p := range points {
		if p.Time.IsZero() || excluded(p.Time, since) {
			continue
		}
		a.foldPoint(&bucket(p.Time).UsageSummary, p)
	}
	for _, e := range events {
		if e.Time.IsZero() || excluded(e.Time, since) {
			continue
		}
		foldEvent(&bucket(e.Time).UsageSummary, e)
	}

	out := make([]domain.HourlyUsage, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HourStart.Before(out[j].HourStart) })
	return out
}

func excluded(ts, since time.Time) bool {
	return !since.IsZero() && !ts.IsZero() && ts.Before(since)
}

// foldPoint dispatches on the exact metric name. Unrecognized names are
// ignored, not errors: exports carry metrics this tool does not track.
func (a *Aggregator) foldPoint(sum *domain.UsageSummary, p otlp.MetricPoint) {
	switch p.Name {
	case domain.MetricCostUsage:
		sum.TotalCostUSD += p.Value
	case domain.MetricTokenUsage:
		a.foldTokens(sum, p)
	case domain.MetricSessionCount:
		sum.SessionCount += int64(p.Value)
	case domain.MetricActiveTime:
		sum.ActiveTimeSeconds += int64(p.Value)
	case domain.MetricLinesOfCode:
		sum.LinesOfCode += int64(p.Value)
	case domain.MetricCommitCount:
		sum.CommitCount += int64(p.Value)
	case domain.MetricPullRequestCount:
		sum.PullRequestCount += int64(p.Value)
	}
}

func (a *Aggregator) foldTokens(sum *domain.UsageSummary, p otlp.MetricPoint) {
	tokenType, ok := p.Attr(domain.AttrTokenType)
	if !ok {
		tokenType, ok = p.Attr(domain.AttrTokenTypeOld)
	}
	switch tokenType {
	case domain.TokenTypeOutput:
		sum.OutputTokens += int64(p.Value)
	case domain.TokenTypeCacheRead:
		sum.CacheReadTokens += int64(p.Value)
	case domain.TokenTypeCacheCreation:
		sum.CacheCreationTokens += int64(p.Value)
	default:
		if !ok {
			// Untyped token counts are treated as input.
			a.logger.Debug("token data point without a type attribute, counting as input",
				zap.Float64("value", p.Value))
		}
		sum.InputTokens += int64(p.Value)
	}
}

func foldEvent(sum *domain.UsageSummary, e otlp.LogEvent) {
	switch e.Name {
	case domain.EventUserPrompt:
		sum.PromptCount++
	case domain.EventAPIRequest:
		sum.APIRequestCount++
	}
}
