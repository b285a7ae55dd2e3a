package period

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seojun-park/claudebar/internal/domain"
	"github.com/seojun-park/claudebar/internal/ports"
)

// SessionManager owns the rolling session window. All mutations go through
// one mutex so a reset racing a refresh cannot lose the newer start.
type SessionManager struct {
	store  ports.SessionStore
	maxAge time.Duration
	now    func() time.Time

	mu sync.Mutex
}

// NewSessionManager creates a manager over the given store. maxAgeHours caps
// how far back the effective window start may reach.
func NewSessionManager(store ports.SessionStore, maxAgeHours int) *SessionManager {
	return &SessionManager{
		store:  store,
		maxAge: time.Duration(maxAgeHours) * time.Hour,
		now:    time.Now,
	}
}

// MaxAge is the configured window cap.
func (m *SessionManager) MaxAge() time.Duration { return m.maxAge }

// Current returns the persisted session state, which may be zero.
func (m *SessionManager) Current(ctx context.Context) (domain.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Get(ctx)
}

// EffectiveStart returns the window start clamped to the maximum age: the
// window never exceeds maxAge even when the persisted start is older, and a
// never-persisted (zero) start defaults to now minus maxAge.
func (m *SessionManager) EffectiveStart(ctx context.Context) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, err := m.store.Get(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading session state: %w", err)
	}
	floor := m.now().Add(-m.maxAge)
	if state.StartedAt.IsZero() || state.StartedAt.Before(floor) {
		return floor, nil
	}
	return state.StartedAt, nil
}

// Reset starts a fresh session now, under a new session id.
func (m *SessionManager) Reset(ctx context.Context) (domain.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := domain.SessionState{
		ID:        uuid.NewString(),
		StartedAt: m.now(),
	}
	if err := m.store.Set(ctx, state); err != nil {
		return domain.SessionState{}, fmt.Errorf("persisting session state: %w", err)
	}
	return state, nil
}

// SetStart moves the session start to a caller-supplied time. Candidates in
// the future or beyond the maximum age are rejected without mutating state.
func (m *SessionManager) SetStart(ctx context.Context, candidate time.Time) (domain.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if candidate.After(now) {
		return domain.SessionState{}, &domain.ValidationError{
			Field:  "session start",
			Reason: "must not be in the future",
		}
	}
	if candidate.Before(now.Add(-m.maxAge)) {
		return domain.SessionState{}, &domain.ValidationError{
			Field:  "session start",
			Reason: fmt.Sprintf("must be within the last %s", m.maxAge),
		}
	}
	state := domain.SessionState{
		ID:        uuid.NewString(),
		StartedAt: candidate,
	}
	if err := m.store.Set(ctx, state); err != nil {
		return domain.SessionState{}, fmt.Errorf("persisting session state: %w", err)
	}
	return state, nil
}
