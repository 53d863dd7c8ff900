package sqlstore

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"perf-tester/internal/infra"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)"

// BuildDSN resolves the connection string for the configured driver. For
// postgres drivers the DSN is assembled from discrete values when DB_DSN is empty.
func BuildDSN(cfg infra.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		if dsn == "" {
			return "", errors.New("database path is required for sqlite")
		}
		if dsn == ":memory:" || strings.Contains(dsn, "?") {
			return dsn, nil
		}
		return dsn + "?" + sqlitePragmas, nil
	case DriverPostgres, DriverPGX:
		return buildPostgresDSN(cfg)
	default:
		return "", errors.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func buildPostgresDSN(cfg infra.DatabaseConfig) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	if cfg.Host == "" {
		return "", errors.New("database host is required when DSN is not provided")
	}
	if cfg.User == "" {
		return "", errors.New("database user is required when DSN is not provided")
	}
	if cfg.Name == "" {
		return "", errors.New("database name is required when DSN is not provided")
	}

	port := cfg.Port
	if port == "" {
		port = "5432"
	}

	connectionURL := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, port),
		Path:   "/" + cfg.Name,
		User:   url.UserPassword(cfg.User, cfg.Password),
	}

	query := connectionURL.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	connectionURL.RawQuery = query.Encode()

	return connectionURL.String(), nil
}

// ShouldCheckDatabase reports whether a network probe makes sense for cfg.
func ShouldCheckDatabase(cfg infra.DatabaseConfig) bool {
	if cfg.Driver != DriverPostgres && cfg.Driver != DriverPGX {
		return false
	}
	return cfg.DSN != "" || cfg.Host != ""
}

// WaitForDatabase probes the configured host/port until it becomes reachable or context cancellation.
func WaitForDatabase(ctx context.Context, cfg infra.DatabaseConfig, logger *infra.Logger) error {
	host := cfg.Host
	port := cfg.Port

	if (host == "" || port == "") && cfg.DSN != "" {
		parsed, err := url.Parse(cfg.DSN)
		if err != nil {
			return errors.Wrap(err, "invalid DB_DSN")
		}
		if host == "" {
			host = parsed.Hostname()
		}
		if port == "" {
			port = parsed.Port()
		}
	}

	if host == "" {
		return nil
	}
	if port == "" {
		port = "5432"
	}

	address := net.JoinHostPort(host, port)
	dialer := &net.Dialer{Timeout: 3 * time.Second}

	const maxAttempts = 5
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		logger.Printf(ctx, "database check attempt %d failed: %v", attempt, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	return errors.Errorf("database not reachable at %s", address)
}
