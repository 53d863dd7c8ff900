package sqlstore

import (
	"context"
	"embed"
	"io/fs"

	"github.com/go-faster/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

func migrationsFor(dialect string) (goose.Dialect, fs.FS, error) {
	switch dialect {
	case DialectSQLite:
		sub, err := fs.Sub(migrationsFS, "migrations/sqlite")
		return goose.DialectSQLite3, sub, err
	case DialectPostgres:
		sub, err := fs.Sub(migrationsFS, "migrations/postgres")
		return goose.DialectPostgres, sub, err
	default:
		return "", nil, errors.Errorf("sqlstore: no migrations for dialect %q", dialect)
	}
}

// Migrate applies pending migrations and returns the versions applied by this call.
func (s *Store) Migrate(ctx context.Context) ([]int64, error) {
	dialect, fsys, err := migrationsFor(s.dialect)
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(dialect, s.db.DB, fsys)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: init migrations")
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: apply migrations")
	}
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		if r.Source != nil {
			applied = append(applied, r.Source.Version)
		}
	}
	return applied, nil
}

// SchemaVersion reports the latest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	dialect, fsys, err := migrationsFor(s.dialect)
	if err != nil {
		return 0, err
	}
	provider, err := goose.NewProvider(dialect, s.db.DB, fsys)
	if err != nil {
		return 0, errors.Wrap(err, "sqlstore: init migrations")
	}
	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "sqlstore: read schema version")
	}
	return version, nil
}
