package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/seojun-park/claudebar/internal/period"
)

// Backend selection values.
const (
	BackendFile       = "file"
	BackendPrometheus = "prometheus"
)

// Config is the full runtime configuration, loaded from CLAUDEBAR_*
// environment variables.
type Config struct {
	Backend string `envconfig:"BACKEND" default:"file"`

	MetricsPath string `envconfig:"METRICS_PATH"`
	LogsPath    string `envconfig:"LOGS_PATH"`

	PrometheusURL string        `envconfig:"PROMETHEUS_URL" default:"http://localhost:9090"`
	QueryTimeout  time.Duration `envconfig:"QUERY_TIMEOUT" default:"5s"`

	RefreshInterval    time.Duration `envconfig:"REFRESH_INTERVAL" default:"30s"`
	SessionMaxAgeHours int           `envconfig:"SESSION_MAX_AGE_HOURS" default:"5"`
	SessionMaxRequests int           `envconfig:"SESSION_MAX_REQUESTS" default:"50"`

	AnchorWeekday string `envconfig:"ANCHOR_WEEKDAY" default:"Tuesday"`
	AnchorHour    int    `envconfig:"ANCHOR_HOUR" default:"8"`
	AnchorZone    string `envconfig:"ANCHOR_ZONE" default:"Asia/Seoul"`

	DatabasePath string `envconfig:"DATABASE_PATH"`

	OTelEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTelEndpoint string `envconfig:"OTEL_ENDPOINT"`
	OTelInsecure bool   `envconfig:"OTEL_INSECURE" default:"true"`
}

// Load reads configuration from the environment and fills path defaults under
// the user's home directory.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("claudebar", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) fillDefaults() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	if c.MetricsPath == "" {
		c.MetricsPath = filepath.Join(home, ".claude", "telemetry", "metrics.json")
	}
	if c.LogsPath == "" {
		c.LogsPath = filepath.Join(home, ".claude", "telemetry", "logs.json")
	}
	if c.DatabasePath == "" {
		dir := filepath.Join(home, ".claudebar")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		c.DatabasePath = filepath.Join(dir, "claudebar.db")
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendFile, BackendPrometheus:
	default:
		return fmt.Errorf("invalid backend %q (valid: %s, %s)", c.Backend, BackendFile, BackendPrometheus)
	}
	if c.SessionMaxAgeHours <= 0 {
		return fmt.Errorf("session max age must be positive, got %d", c.SessionMaxAgeHours)
	}
	if c.AnchorHour < 0 || c.AnchorHour > 23 {
		return fmt.Errorf("anchor hour must be 0-23, got %d", c.AnchorHour)
	}
	return nil
}

// Anchor builds the weekly anchor from the configured weekday, hour and zone.
func (c *Config) Anchor() (period.Anchor, error) {
	weekday, err := parseWeekday(c.AnchorWeekday)
	if err != nil {
		return period.Anchor{}, err
	}
	loc, err := time.LoadLocation(c.AnchorZone)
	if err != nil {
		return period.Anchor{}, fmt.Errorf("loading anchor zone %q: %w", c.AnchorZone, err)
	}
	return period.Anchor{Weekday: weekday, Hour: c.AnchorHour, Location: loc}, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", name)
}
