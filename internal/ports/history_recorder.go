package ports

import (
	"context"

	"github.com/seojun-park/claudebar/internal/domain"
)

// HistoryRecorder persists completed refresh pass results.
type HistoryRecorder interface {
	Record(ctx context.Context, window string, summary domain.UsageSummary) error
	Recent(ctx context.Context, window string, limit int) ([]domain.HistoryEntry, error)
}
