package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/seojun-park/claudebar/internal/domain"
	"github.com/seojun-park/claudebar/internal/period"
	"github.com/seojun-park/claudebar/internal/ports"
)

// Snapshot is the result of one complete refresh pass over all windows.
type Snapshot struct {
	Session      domain.UsageSummary
	SessionStart time.Time
	Weekly       domain.UsageSummary
	Week         period.WeeklyPeriod
	Hourly       []domain.HourlyUsage
	TakenAt      time.Time
}

// Params wires an Engine. Exporter and History are optional.
type Params struct {
	Backend  string
	Source   ports.UsageSource
	Sessions *period.SessionManager
	Anchor   period.Anchor
	Exporter ports.MetricsExporter
	History  ports.HistoryRecorder
	Logger   *zap.Logger
}

// Engine drives aggregation passes: period bounds in, summaries out. It keeps
// the last good snapshot so a failed pass never blanks the display.
type Engine struct {
	backend  string
	source   ports.UsageSource
	sessions *period.SessionManager
	anchor   period.Anchor
	exporter ports.MetricsExporter
	history  ports.HistoryRecorder
	logger   *zap.Logger
	now      func() time.Time

	inFlight atomic.Bool
	mu       sync.RWMutex
	last     *Snapshot
}

// New creates an engine.
func New(p Params) *Engine {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		backend:  p.Backend,
		source:   p.Source,
		sessions: p.Sessions,
		anchor:   p.Anchor,
		exporter: p.Exporter,
		history:  p.History,
		logger:   logger,
		now:      time.Now,
	}
}

// Refresh runs one aggregation pass. A pass starting while another is in
// flight is skipped and the previous snapshot returned. On failure the
// previous snapshot is kept and returned alongside the error.
func (e *Engine) Refresh(ctx context.Context) (*Snapshot, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		e.logger.Debug("refresh already in flight, skipping")
		return e.Last(), nil
	}
	defer e.inFlight.Store(false)

	started := e.now()
	snap, err := e.collect(ctx)
	if e.exporter != nil {
		e.exporter.RecordPass(ctx, e.backend, e.now().Sub(started), err)
	}
	if err != nil {
		return e.Last(), err
	}

	e.mu.Lock()
	e.last = snap
	e.mu.Unlock()

	e.record(ctx, snap)
	return snap, nil
}

// Last returns the most recent successful snapshot, or nil before the first
// completed pass.
func (e *Engine) Last() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// ResetSession starts a fresh session and immediately re-fetches.
func (e *Engine) ResetSession(ctx context.Context) (domain.SessionState, error) {
	state, err := e.sessions.Reset(ctx)
	if err != nil {
		return domain.SessionState{}, err
	}
	if _, err := e.Refresh(ctx); err != nil {
		e.logger.Warn("refresh after session reset failed", zap.Error(err))
	}
	return state, nil
}

// SetSessionStart moves the session start and immediately re-fetches.
func (e *Engine) SetSessionStart(ctx context.Context, start time.Time) (domain.SessionState, error) {
	state, err := e.sessions.SetStart(ctx, start)
	if err != nil {
		return domain.SessionState{}, err
	}
	if _, err := e.Refresh(ctx); err != nil {
		e.logger.Warn("refresh after session start change failed", zap.Error(err))
	}
	return state, nil
}

func (e *Engine) collect(ctx context.Context) (*Snapshot, error) {
	sessionStart, err := e.sessions.EffectiveStart(ctx)
	if err != nil {
		return nil, err
	}
	session, err := e.source.Summary(ctx, sessionStart)
	if err != nil {
		return nil, fmt.Errorf("aggregating session window: %w", err)
	}

	week := period.CurrentWeek(e.now(), e.anchor)
	weekly, err := e.source.Summary(ctx, week.Start)
	if err != nil {
		return nil, fmt.Errorf("aggregating weekly window: %w", err)
	}

	hourly, err := e.source.Hourly(ctx, e.now().Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("aggregating hourly buckets: %w", err)
	}

	return &Snapshot{
		Session:      *session,
		SessionStart: sessionStart,
		Weekly:       *weekly,
		Week:         week,
		Hourly:       hourly,
		TakenAt:      e.now(),
	}, nil
}

func (e *Engine) record(ctx context.Context, snap *Snapshot) {
	if e.history == nil {
		return
	}
	if err := e.history.Record(ctx, domain.WindowSession, snap.Session); err != nil {
		e.logger.Warn("recording session history failed", zap.Error(err))
	}
	if err := e.history.Record(ctx, domain.WindowWeekly, snap.Weekly); err != nil {
		e.logger.Warn("recording weekly history failed", zap.Error(err))
	}
}
