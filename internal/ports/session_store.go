package ports

import (
	"context"

	"github.com/seojun-park/claudebar/internal/domain"
)

// SessionStore persists the rolling session state. Get returns a zero state,
// not an error, when nothing has been persisted yet.
type SessionStore interface {
	Get(ctx context.Context) (domain.SessionState, error)
	Set(ctx context.Context, state domain.SessionState) error
}
