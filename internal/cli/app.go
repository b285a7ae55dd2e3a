package cli

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/seojun-park/claudebar/internal/adapters/file"
	"github.com/seojun-park/claudebar/internal/adapters/libsql"
	otelexport "github.com/seojun-park/claudebar/internal/adapters/otel"
	"github.com/seojun-park/claudebar/internal/adapters/prometheus"
	"github.com/seojun-park/claudebar/internal/config"
	"github.com/seojun-park/claudebar/internal/engine"
	"github.com/seojun-park/claudebar/internal/period"
	"github.com/seojun-park/claudebar/internal/ports"
)

// app bundles the wired dependencies every command needs.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	engine   *engine.Engine
	sessions *period.SessionManager
	history  ports.HistoryRecorder
	exporter ports.MetricsExporter
}

func (a *app) Close(ctx context.Context) {
	if a.exporter != nil {
		_ = a.exporter.Close(ctx)
	}
	_ = a.db.Close()
}

// newApp loads configuration and wires the engine. The OTEL self-metrics
// exporter is only attached for long-running commands.
func newApp(ctx context.Context, logger *zap.Logger, withExporter bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	anchor, err := cfg.Anchor()
	if err != nil {
		return nil, err
	}

	db, err := libsql.NewDB(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sessions := period.NewSessionManager(libsql.NewSessionStateRepository(db), cfg.SessionMaxAgeHours)
	history := libsql.NewSummaryHistoryRepository(db)

	var source ports.UsageSource
	switch cfg.Backend {
	case config.BackendPrometheus:
		source = prometheus.NewClient(cfg.PrometheusURL, cfg.QueryTimeout)
	default:
		source = file.NewSource(cfg.MetricsPath, cfg.LogsPath, logger)
	}

	var exporter ports.MetricsExporter = otelexport.NewNoOpExporter()
	if withExporter && cfg.OTelEnabled {
		exp, err := otelexport.NewExporter(ctx, otelexport.Config{
			Endpoint: cfg.OTelEndpoint,
			Enabled:  cfg.OTelEnabled,
			Insecure: cfg.OTelInsecure,
		})
		if err != nil {
			logger.Warn("self-metrics exporter disabled", zap.Error(err))
		} else {
			exporter = exp
		}
	}

	eng := engine.New(engine.Params{
		Backend:  cfg.Backend,
		Source:   source,
		Sessions: sessions,
		Anchor:   anchor,
		Exporter: exporter,
		History:  history,
		Logger:   logger,
	})

	return &app{
		cfg:      cfg,
		db:       db,
		engine:   eng,
		sessions: sessions,
		history:  history,
		exporter: exporter,
	}, nil
}
