package ports

import (
	"context"
	"time"
)

// MetricsExporter publishes claudebar's own operational metrics.
type MetricsExporter interface {
	// RecordPass records one completed refresh pass.
	RecordPass(ctx context.Context, backend string, duration time.Duration, passErr error)
	// Close flushes any pending metrics.
	Close(ctx context.Context) error
}
