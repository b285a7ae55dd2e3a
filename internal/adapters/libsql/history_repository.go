package libsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/seojun-park/claudebar/internal/domain"
)

// SummaryHistoryRepository records the result of each completed refresh pass.
type SummaryHistoryRepository struct {
	db *sql.DB
}

func NewSummaryHistoryRepository(db *sql.DB) *SummaryHistoryRepository {
	return &SummaryHistoryRepository{db: db}
}

// Record appends one summary under the given window label.
func (r *SummaryHistoryRepository) Record(ctx context.Context, window string, s domain.UsageSummary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO summary_history (
			recorded_at, window, total_cost_usd,
			input_tokens, output_tokens, cache_read_tokens, cache_creation_tokens,
			session_count, active_time_seconds, lines_of_code,
			commit_count, pull_request_count, prompt_count, api_request_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Unix(), window, s.TotalCostUSD,
		s.InputTokens, s.OutputTokens, s.CacheReadTokens, s.CacheCreationTokens,
		s.SessionCount, s.ActiveTimeSeconds, s.LinesOfCode,
		s.CommitCount, s.PullRequestCount, s.PromptCount, s.APIRequestCount)
	if err != nil {
		return fmt.Errorf("failed to record summary: %w", err)
	}
	return nil
}

// Recent returns the newest entries for a window label, newest first.
func (r *SummaryHistoryRepository) Recent(ctx context.Context, window string, limit int) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT recorded_at, window, total_cost_usd,
			input_tokens, output_tokens, cache_read_tokens, cache_creation_tokens,
			session_count, active_time_seconds, lines_of_code,
			commit_count, pull_request_count, prompt_count, api_request_count
		FROM summary_history
		WHERE window = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, window, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list summary history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var recordedAt int64
		if err := rows.Scan(&recordedAt, &e.Window, &e.TotalCostUSD,
			&e.InputTokens, &e.OutputTokens, &e.CacheReadTokens, &e.CacheCreationTokens,
			&e.SessionCount, &e.ActiveTimeSeconds, &e.LinesOfCode,
			&e.CommitCount, &e.PullRequestCount, &e.PromptCount, &e.APIRequestCount); err != nil {
			return nil, fmt.Errorf("failed to scan summary history: %w", err)
		}
		e.RecordedAt = time.Unix(recordedAt, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
