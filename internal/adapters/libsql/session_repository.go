package libsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/seojun-park/claudebar/internal/domain"
)

// SessionStateRepository persists the single rolling session row.
type SessionStateRepository struct {
	db *sql.DB
}

func NewSessionStateRepository(db *sql.DB) *SessionStateRepository {
	return &SessionStateRepository{db: db}
}

// Get returns the persisted session state, or a zero state when none exists.
func (r *SessionStateRepository) Get(ctx context.Context) (domain.SessionState, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT session_id, started_at FROM session_state WHERE id = 1`)

	var id string
	var startedAt int64
	if err := row.Scan(&id, &startedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.SessionState{}, nil
		}
		return domain.SessionState{}, fmt.Errorf("failed to read session state: %w", err)
	}
	return domain.SessionState{
		ID:        id,
		StartedAt: time.Unix(startedAt, 0).UTC(),
	}, nil
}

// Set overwrites the persisted session state.
func (r *SessionStateRepository) Set(ctx context.Context, state domain.SessionState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_state (id, session_id, started_at, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			session_id = excluded.session_id,
			started_at = excluded.started_at,
			updated_at = excluded.updated_at`,
		state.ID, state.StartedAt.Unix(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	return nil
}
