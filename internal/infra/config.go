package infra

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
)

type Config struct {
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort        string `env:"HTTP_PORT" envDefault:"8080"`
	GRPCPort        string `env:"GRPC_PORT" envDefault:"50051"`
	MetricsAddr     string `env:"METRICS_ADDR"`
	MetricsTextfile string `env:"METRICS_TEXTFILE"`
	ReportDir       string `env:"REPORT_DIR" envDefault:"."`
	// Provider selects the measurement backend: lighthouse or synthetic.
	Provider       string        `env:"MEASUREMENT_PROVIDER" envDefault:"lighthouse"`
	SyntheticDelay time.Duration `env:"SYNTHETIC_DELAY" envDefault:"0s"`

	Database   DatabaseConfig
	Lighthouse LighthouseConfig
}

type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN      string `env:"DB_DSN"`
	Path     string `env:"DB_PATH" envDefault:"perf-tester.sqlite"`
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
}

type LighthouseConfig struct {
	Bin         string        `env:"LIGHTHOUSE_BIN" envDefault:"lighthouse"`
	Timeout     time.Duration `env:"LIGHTHOUSE_TIMEOUT" envDefault:"2m"`
	ChromeFlags string        `env:"LIGHTHOUSE_CHROME_FLAGS" envDefault:"--no-sandbox --disable-gpu"`
}

func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	return cfg, nil
}

func LogConfig(ctx context.Context, logger *Logger, cfg Config) {
	logger.Debugf(ctx, "LOG_LEVEL=%s", cfg.LogLevel)
	logger.Debugf(ctx, "HTTP_PORT=%s", cfg.HTTPPort)
	logger.Debugf(ctx, "GRPC_PORT=%s", cfg.GRPCPort)
	logger.Debugf(ctx, "METRICS_ADDR=%s", emptyFallback(cfg.MetricsAddr, "(disabled)"))
	logger.Debugf(ctx, "METRICS_TEXTFILE=%s", emptyFallback(cfg.MetricsTextfile, "(disabled)"))
	logger.Debugf(ctx, "REPORT_DIR=%s", cfg.ReportDir)
	logger.Debugf(ctx, "DB_DRIVER=%s", cfg.Database.Driver)
	if cfg.Database.DSN != "" {
		logger.Debugf(ctx, "DB_DSN set (length %d)", len(cfg.Database.DSN))
	} else {
		logger.Debugf(ctx, "DB_DSN not provided")
	}
	logger.Debugf(ctx, "DB_PATH=%s", cfg.Database.Path)
	logger.Debugf(ctx, "DB_HOST=%s", emptyFallback(cfg.Database.Host, "(not set)"))
	logger.Debugf(ctx, "DB_PORT=%s", emptyFallback(cfg.Database.Port, "(not set)"))
	logger.Debugf(ctx, "DB_USER=%s", emptyFallback(cfg.Database.User, "(not set)"))
	if cfg.Database.Password != "" {
		logger.Debugf(ctx, "DB_PASSWORD set (redacted)")
	} else {
		logger.Debugf(ctx, "DB_PASSWORD not provided")
	}
	logger.Debugf(ctx, "DB_NAME=%s", emptyFallback(cfg.Database.Name, "(not set)"))
	logger.Debugf(ctx, "MEASUREMENT_PROVIDER=%s", cfg.Provider)
	logger.Debugf(ctx, "LIGHTHOUSE_BIN=%s", cfg.Lighthouse.Bin)
	logger.Debugf(ctx, "LIGHTHOUSE_TIMEOUT=%s", cfg.Lighthouse.Timeout)
}

func emptyFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
