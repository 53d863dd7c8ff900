package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guregu/null/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-tester/internal/domain"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	store := NewWithDB(sqlx.NewDb(db, DriverPostgres), DialectPostgres)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store, mock
}

func TestPostgresAppendUsesReturning(t *testing.T) {
	t.Log("Шаг 1: ожидаем INSERT с позиционными параметрами postgres")
	store, mock := newMockStore(t)
	rec := domain.MeasurementRecord{
		Label:     "base",
		URL:       "https://a",
		RunIndex:  2,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Metrics:   domain.Metrics{LoadTime: null.FloatFrom(1200)},
	}

	mock.ExpectQuery(`(?s)INSERT INTO results.*\$14.*RETURNING id`).
		WithArgs("base", "https://a", 2, "2026-03-01T10:00:00Z",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := store.Append(context.Background(), rec)

	t.Log("Шаг 2: проверяем возвращённый идентификатор")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendPropagatesErrors(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("INSERT INTO results").WillReturnError(errors.New("connection reset"))

	_, err := store.Append(context.Background(), domain.MeasurementRecord{
		Label: "a", URL: "u", RunIndex: 1, Timestamp: time.Now(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFetchByLabelsExpandsIn(t *testing.T) {
	store, mock := newMockStore(t)
	columns := []string{"id", "label", "url", "run_index", "timestamp",
		"load_time", "ttfb", "performance", "fcp", "tti", "tbt", "speed_index", "lcp", "cls", "raw_payload"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE label IN ($1, $2)")).
		WithArgs("A", "B").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "A", "u", 1, "2026-03-01T10:00:00Z", 1000.0, nil, 95.0, nil, nil, nil, nil, nil, 0.01, nil))

	records, err := store.FetchByLabels(context.Background(), []string{"A", "B"})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1000.0, records[0].Metrics.LoadTime.Float64)
	assert.False(t, records[0].Metrics.TTFB.Valid)
	assert.Equal(t, 0.01, records[0].Metrics.CLS.Float64)
	assert.False(t, records[0].RawPayload.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAggregateByLabels(t *testing.T) {
	store, mock := newMockStore(t)
	columns := []string{"url", "label", "runs", "load_time", "ttfb", "performance", "fcp", "tti", "tbt", "speed_index", "lcp", "cls"}
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY url, label")).
		WithArgs("A").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("u", "A", int64(3), 15.0, nil, nil, nil, nil, nil, nil, nil, nil))

	rows, err := store.AggregateByLabels(context.Background(), []string{"A"})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Runs)
	assert.Equal(t, 15.0, rows[0].Averages.LoadTime.Float64)
	assert.False(t, rows[0].Averages.CLS.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTimestampLayouts(t *testing.T) {
	ts, err := parseTimestamp("2026-03-01 10:00:00+00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), ts)

	_, err = parseTimestamp("yesterday")
	assert.Error(t, err)
}
