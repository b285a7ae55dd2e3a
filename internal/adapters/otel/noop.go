package otel

import (
	"context"
	"time"
)

// NoOpExporter discards all metrics, for graceful degradation when export is
// disabled.
type NoOpExporter struct{}

func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordPass(ctx context.Context, backend string, duration time.Duration, passErr error) {
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
