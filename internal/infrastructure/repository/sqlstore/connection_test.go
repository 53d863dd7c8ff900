package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-tester/internal/infra"
)

func TestBuildDSNSQLite(t *testing.T) {
	t.Log("Шаг 1: путь по умолчанию получает pragma busy_timeout")
	dsn, err := BuildDSN(infra.DatabaseConfig{Driver: DriverSQLite, Path: "perf-tester.sqlite"})
	require.NoError(t, err)
	assert.Equal(t, "perf-tester.sqlite?_pragma=busy_timeout(5000)", dsn)

	t.Log("Шаг 2: явный DSN и :memory: не изменяются")
	dsn, err = BuildDSN(infra.DatabaseConfig{Driver: DriverSQLite, DSN: "file:x.db?mode=ro"})
	require.NoError(t, err)
	assert.Equal(t, "file:x.db?mode=ro", dsn)
	dsn, err = BuildDSN(infra.DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, ":memory:", dsn)
}

func TestBuildDSNPostgres(t *testing.T) {
	dsn, err := BuildDSN(infra.DatabaseConfig{
		Driver: DriverPGX, Host: "db", User: "perf", Password: "p@ss", Name: "results",
	})
	require.NoError(t, err)
	assert.Equal(t, "postgres://perf:p%40ss@db:5432/results?sslmode=disable", dsn)

	_, err = BuildDSN(infra.DatabaseConfig{Driver: DriverPostgres, User: "perf", Name: "results"})
	assert.Error(t, err)

	_, err = BuildDSN(infra.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestShouldCheckDatabase(t *testing.T) {
	assert.False(t, ShouldCheckDatabase(infra.DatabaseConfig{Driver: DriverSQLite, DSN: "x"}))
	assert.False(t, ShouldCheckDatabase(infra.DatabaseConfig{Driver: DriverPostgres}))
	assert.True(t, ShouldCheckDatabase(infra.DatabaseConfig{Driver: DriverPostgres, Host: "db"}))
}

func TestWaitForDatabaseWithoutHost(t *testing.T) {
	assert.NoError(t, WaitForDatabase(context.Background(), infra.DatabaseConfig{}, nil))
}
