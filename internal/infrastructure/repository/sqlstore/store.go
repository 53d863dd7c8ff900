package sqlstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/guregu/null/v5"
	"github.com/jmoiron/sqlx"

	// database/sql drivers selectable through DB_DRIVER
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"perf-tester/internal/domain"
	"perf-tester/internal/infra"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
)

const (
	insertRecordQuery = `
INSERT INTO results (
    label, url, run_index, timestamp,
    load_time, ttfb, performance, fcp, tti, tbt, speed_index, lcp, cls,
    raw_payload
) VALUES (
    :label, :url, :run_index, :timestamp,
    :load_time, :ttfb, :performance, :fcp, :tti, :tbt, :speed_index, :lcp, :cls,
    :raw_payload
) RETURNING id`

	fetchByLabelsQuery = `
SELECT id, label, url, run_index, timestamp,
       load_time, ttfb, performance, fcp, tti, tbt, speed_index, lcp, cls,
       raw_payload
FROM results
WHERE label IN (?)
ORDER BY url, label, run_index, id`

	aggregateByLabelsQuery = `
SELECT url, label, COUNT(*) AS runs,
       AVG(load_time) AS load_time, AVG(ttfb) AS ttfb, AVG(performance) AS performance,
       AVG(fcp) AS fcp, AVG(tti) AS tti, AVG(tbt) AS tbt,
       AVG(speed_index) AS speed_index, AVG(lcp) AS lcp, AVG(cls) AS cls
FROM results
WHERE label IN (?)
GROUP BY url, label
ORDER BY url, label`
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Config contains what is required to open a store.
type Config struct {
	Driver string
	DSN    string
	// SkipMigrations leaves the schema untouched on Open.
	SkipMigrations bool
}

// Store implements the measurement record store on top of database/sql.
type Store struct {
	db      *sqlx.DB
	dialect string

	closeOnce sync.Once
	closeErr  error
}

// Open connects to the configured database, verifies the connection and
// applies pending migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("sqlstore: DSN is required")
	}
	dialect, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: open connection")
	}
	if dialect == DialectSQLite {
		// sqlite allows a single writer; in-memory databases live per connection
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "sqlstore: ping")
	}

	store := NewWithDB(db, dialect)
	if !cfg.SkipMigrations {
		if _, err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return store, nil
}

// NewWithDB wraps an already opened handle. The schema is not touched.
func NewWithDB(db *sqlx.DB, dialect string) *Store {
	return &Store{db: db, dialect: dialect}
}

func dialectFor(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return DialectSQLite, nil
	case DriverPostgres, DriverPGX:
		return DialectPostgres, nil
	default:
		return "", errors.Errorf("sqlstore: unsupported driver %q", driver)
	}
}

type recordRow struct {
	ID         int64       `db:"id"`
	Label      string      `db:"label"`
	URL        string      `db:"url"`
	RunIndex   int         `db:"run_index"`
	Timestamp  string      `db:"timestamp"`
	LoadTime   null.Float  `db:"load_time"`
	TTFB       null.Float  `db:"ttfb"`
	Perf       null.Float  `db:"performance"`
	FCP        null.Float  `db:"fcp"`
	TTI        null.Float  `db:"tti"`
	TBT        null.Float  `db:"tbt"`
	SpeedIndex null.Float  `db:"speed_index"`
	LCP        null.Float  `db:"lcp"`
	CLS        null.Float  `db:"cls"`
	RawPayload null.String `db:"raw_payload"`
}

func toRow(rec domain.MeasurementRecord) recordRow {
	m := rec.Metrics
	return recordRow{
		Label:      rec.Label,
		URL:        rec.URL,
		RunIndex:   rec.RunIndex,
		Timestamp:  rec.Timestamp.UTC().Format(time.RFC3339Nano),
		LoadTime:   m.LoadTime,
		TTFB:       m.TTFB,
		Perf:       m.Performance,
		FCP:        m.FCP,
		TTI:        m.TTI,
		TBT:        m.TBT,
		SpeedIndex: m.SpeedIndex,
		LCP:        m.LCP,
		CLS:        m.CLS,
		RawPayload: rec.RawPayload,
	}
}

func (r recordRow) toDomain() (domain.MeasurementRecord, error) {
	ts, err := parseTimestamp(r.Timestamp)
	if err != nil {
		return domain.MeasurementRecord{}, errors.Wrapf(err, "sqlstore: record %d timestamp", r.ID)
	}
	return domain.MeasurementRecord{
		ID:        r.ID,
		Label:     r.Label,
		URL:       r.URL,
		RunIndex:  r.RunIndex,
		Timestamp: ts,
		Metrics: domain.Metrics{
			LoadTime:    r.LoadTime,
			TTFB:        r.TTFB,
			Performance: r.Perf,
			FCP:         r.FCP,
			TTI:         r.TTI,
			TBT:         r.TBT,
			SpeedIndex:  r.SpeedIndex,
			LCP:         r.LCP,
			CLS:         r.CLS,
		},
		RawPayload: r.RawPayload,
	}, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

type aggregateRow struct {
	URL        string     `db:"url"`
	Label      string     `db:"label"`
	Runs       int        `db:"runs"`
	LoadTime   null.Float `db:"load_time"`
	TTFB       null.Float `db:"ttfb"`
	Perf       null.Float `db:"performance"`
	FCP        null.Float `db:"fcp"`
	TTI        null.Float `db:"tti"`
	TBT        null.Float `db:"tbt"`
	SpeedIndex null.Float `db:"speed_index"`
	LCP        null.Float `db:"lcp"`
	CLS        null.Float `db:"cls"`
}

func (r aggregateRow) toDomain() domain.AggregateRow {
	return domain.AggregateRow{
		URL:   r.URL,
		Label: r.Label,
		Runs:  r.Runs,
		Averages: domain.Metrics{
			LoadTime:    r.LoadTime,
			TTFB:        r.TTFB,
			Performance: r.Perf,
			FCP:         r.FCP,
			TTI:         r.TTI,
			TBT:         r.TBT,
			SpeedIndex:  r.SpeedIndex,
			LCP:         r.LCP,
			CLS:         r.CLS,
		},
	}
}

// Append persists the record and returns the id assigned by the database.
func (s *Store) Append(ctx context.Context, record domain.MeasurementRecord) (int64, error) {
	if err := record.Validate(); err != nil {
		return 0, err
	}

	query, args, err := s.db.BindNamed(insertRecordQuery, toRow(record))
	if err != nil {
		return 0, errors.Wrap(err, "sqlstore: bind insert")
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		infra.RecordStoreError("append")
		return 0, errors.Wrap(err, "sqlstore: insert record")
	}
	infra.RecordPersisted()
	return id, nil
}

// FetchByLabels returns all records whose label is in labels.
func (s *Store) FetchByLabels(ctx context.Context, labels []string) ([]domain.MeasurementRecord, error) {
	if len(labels) == 0 {
		return []domain.MeasurementRecord{}, nil
	}

	query, args, err := sqlx.In(fetchByLabelsQuery, labels)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: expand labels")
	}

	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		infra.RecordStoreError("fetch")
		return nil, errors.Wrap(err, "sqlstore: fetch records")
	}

	records := make([]domain.MeasurementRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// AggregateByLabels groups records by url and label inside the database.
// SQL AVG ignores NULL values, so absent metrics do not count as zero.
func (s *Store) AggregateByLabels(ctx context.Context, labels []string) ([]domain.AggregateRow, error) {
	if len(labels) == 0 {
		return []domain.AggregateRow{}, nil
	}

	query, args, err := sqlx.In(aggregateByLabelsQuery, labels)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: expand labels")
	}

	var rows []aggregateRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		infra.RecordStoreError("aggregate")
		return nil, errors.Wrap(err, "sqlstore: aggregate records")
	}

	out := make([]domain.AggregateRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Close releases the database handle. Subsequent calls return the first result.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

var _ domain.RecordStore = (*Store)(nil)
