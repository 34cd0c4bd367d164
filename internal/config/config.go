package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"github.com/danielpatrickdp/ternary-kernel/internal/alert"
)

// #region config
// Config is the runtime configuration shared by ternaryd and the trit CLI.
type Config struct {
	Delta          float64       `env:"TERNARY_DELTA"           envDefault:"0.05"`
	DBPath         string        `env:"TERNARY_DB"              envDefault:"ternary.db"`
	GRPCAddr       string        `env:"TERNARY_GRPC_ADDR"       envDefault:"localhost:50061"`
	MetricsAddr    string        `env:"TERNARY_METRICS_ADDR"    envDefault:"localhost:9461"`
	AlertThreshold int           `env:"TERNARY_ALERT_THRESHOLD" envDefault:"5"`
	AlertWindow    time.Duration `env:"TERNARY_ALERT_WINDOW"    envDefault:"60s"`
	LogLevel       string        `env:"TERNARY_LOG_LEVEL"       envDefault:"info"`
	// Seed makes probabilistic resolution reproducible. Zero means unseeded.
	Seed uint64 `env:"TERNARY_SEED" envDefault:"0"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// #endregion config

// #region derived
// AlertConfig returns the spike monitor settings.
func (c Config) AlertConfig() alert.Config {
	def := alert.DefaultConfig()
	def.Threshold = c.AlertThreshold
	def.Window = c.AlertWindow
	return def
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Warnings lists settings that are accepted but probably wrong.
func (c Config) Warnings() []string {
	var out []string
	if c.Delta < 0 || c.Delta > 0.5 {
		out = append(out, fmt.Sprintf("delta %v outside [0, 0.5]: thresholds cross", c.Delta))
	}
	if c.AlertThreshold <= 0 {
		out = append(out, fmt.Sprintf("alert threshold %d is not positive, using default", c.AlertThreshold))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		out = append(out, fmt.Sprintf("unknown log level %q, using info", c.LogLevel))
	}
	return out
}

// #endregion derived
