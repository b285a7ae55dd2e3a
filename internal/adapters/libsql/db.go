package libsql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/go-libsql"
)

// The driver executes one statement per Exec, so the schema is kept as
// individual statements.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS session_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	session_id TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS summary_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at INTEGER NOT NULL,
	window TEXT NOT NULL,
	total_cost_usd REAL NOT NULL,
	input_tokens INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	cache_read_tokens INTEGER NOT NULL,
	cache_creation_tokens INTEGER NOT NULL,
	session_count INTEGER NOT NULL,
	active_time_seconds INTEGER NOT NULL,
	lines_of_code INTEGER NOT NULL,
	commit_count INTEGER NOT NULL,
	pull_request_count INTEGER NOT NULL,
	prompt_count INTEGER NOT NULL,
	api_request_count INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_summary_history_window
	ON summary_history (window, recorded_at DESC)`,
}

// NewDB opens the local libsql database and applies the schema. path may be a
// plain file path or a full file: DSN.
func NewDB(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return db, nil
}
