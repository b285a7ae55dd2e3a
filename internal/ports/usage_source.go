package ports

import (
	"context"
	"time"

	"github.com/seojun-park/claudebar/internal/domain"
)

// UsageSource produces usage summaries for a window starting at since.
// The file-backed and Prometheus-backed implementations are interchangeable:
// same fields, same semantics, so callers never branch on the backend.
type UsageSource interface {
	// Summary aggregates all usage from since until now.
	Summary(ctx context.Context, since time.Time) (*domain.UsageSummary, error)
	// Hourly aggregates usage from since until now into sparse per-hour
	// buckets, sorted ascending by hour start.
	Hourly(ctx context.Context, since time.Time) ([]domain.HourlyUsage, error)
}
