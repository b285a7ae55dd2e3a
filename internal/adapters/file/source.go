package file

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/seojun-park/claudebar/internal/aggregate"
	"github.com/seojun-park/claudebar/internal/domain"
	"github.com/seojun-park/claudebar/internal/otlp"
)

// Source aggregates usage from local OTLP-JSON export files, one for metrics
// and one for logs. Missing files yield an all-zero summary.
type Source struct {
	metricsPath string
	logsPath    string
	agg         *aggregate.Aggregator
}

// NewSource creates a file-backed usage source.
func NewSource(metricsPath, logsPath string, logger *zap.Logger) *Source {
	return &Source{
		metricsPath: metricsPath,
		logsPath:    logsPath,
		agg:         aggregate.New(logger),
	}
}

// Summary implements ports.UsageSource.
func (s *Source) Summary(ctx context.Context, since time.Time) (*domain.UsageSummary, error) {
	points, events, err := s.load()
	if err != nil {
		return nil, err
	}
	sum := s.agg.Summarize(points, events, since)
	if ts, ok := s.lastModified(); ok {
		sum.LastUpdated = &ts
	}
	return &sum, nil
}

// Hourly implements ports.UsageSource.
func (s *Source) Hourly(ctx context.Context, since time.Time) ([]domain.HourlyUsage, error) {
	points, events, err := s.load()
	if err != nil {
		return nil, err
	}
	return s.agg.SummarizeHourly(points, events, since), nil
}

func (s *Source) load() ([]otlp.MetricPoint, []otlp.LogEvent, error) {
	mds, err := otlp.ReadMetricsFile(s.metricsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading metrics export: %w", err)
	}
	lds, err := otlp.ReadLogsFile(s.logsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading logs export: %w", err)
	}
	return otlp.ExtractPoints(mds), otlp.ExtractEvents(lds), nil
}

// lastModified is the newest mtime across both export files.
func (s *Source) lastModified() (time.Time, bool) {
	var newest time.Time
	for _, path := range []string{s.metricsPath, s.logsPath} {
		if info, err := os.Stat(path); err == nil && info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return newest, !newest.IsZero()
}
