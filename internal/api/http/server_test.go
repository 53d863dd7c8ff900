package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-tester/internal/application/aggregator"
	"perf-tester/internal/domain"
	"perf-tester/internal/infra"
	"perf-tester/internal/infrastructure/repository/memory"
)

type stubService struct {
	err          error
	lastBaseline string
	lastLabels   []string
}

func (s *stubService) Records(_ context.Context, labels []string) ([]domain.MeasurementRecord, error) {
	s.lastLabels = labels
	return nil, s.err
}

func (s *stubService) Aggregate(_ context.Context, labels []string) ([]domain.AggregateRow, error) {
	s.lastLabels = labels
	return nil, s.err
}

func (s *stubService) Compare(_ context.Context, baseline string, labels []string) ([]domain.ComparisonRow, error) {
	s.lastBaseline = baseline
	s.lastLabels = labels
	return []domain.ComparisonRow{}, s.err
}

func (s *stubService) Summaries(_ context.Context, labels []string) ([]domain.AggregateRow, error) {
	s.lastLabels = labels
	return nil, s.err
}

func seededServer(t *testing.T) *Server {
	t.Helper()
	repo := memory.New()
	ts := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	repo.Seed([]domain.MeasurementRecord{
		{Label: "base", URL: "a", RunIndex: 1, Timestamp: ts, Metrics: domain.Metrics{LoadTime: null.FloatFrom(1000)}},
		{Label: "base", URL: "a", RunIndex: 2, Timestamp: ts, Metrics: domain.Metrics{LoadTime: null.FloatFrom(1200)}},
		{Label: "new", URL: "a", RunIndex: 1, Timestamp: ts, Metrics: domain.Metrics{LoadTime: null.FloatFrom(900)}},
	})
	return NewServer(aggregator.New(repo), infra.NewLogger(&bytes.Buffer{}, "test", "info"))
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestHealth(t *testing.T) {
	rr := get(t, seededServer(t), "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(correlationHeader))
}

func TestCompareDefaultsBaselineToFirstLabel(t *testing.T) {
	t.Log("Шаг 1: запрашиваем сравнение без явной базы")
	rr := get(t, seededServer(t), "/compare?labels=base,new")
	require.Equal(t, http.StatusOK, rr.Code)

	t.Log("Шаг 2: проверяем средние и дельты в JSON")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "base", rows[0]["baselineLabel"])
	assert.Equal(t, 1100.0, rows[0]["averages"].(map[string]any)["loadTime"])
	assert.Equal(t, -18.2, rows[1]["deltaPct"].(map[string]any)["loadTime"])
	assert.Nil(t, rows[1]["deltaPct"].(map[string]any)["cls"])
}

func TestCompareExplicitBaseline(t *testing.T) {
	svc := &stubService{}
	server := NewServer(svc, nil)

	rr := get(t, server, "/compare?labels=a,b&baseline=b")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "b", svc.lastBaseline)
	assert.Equal(t, []string{"a", "b"}, svc.lastLabels)
}

func TestAggregateAndSummariesAgree(t *testing.T) {
	server := seededServer(t)

	agg := get(t, server, "/aggregate?labels=base,new")
	sum := get(t, server, "/summaries?labels=base,new")

	require.Equal(t, http.StatusOK, agg.Code)
	require.Equal(t, http.StatusOK, sum.Code)
	assert.JSONEq(t, agg.Body.String(), sum.Body.String())
}

func TestRecordsReturnsRawRuns(t *testing.T) {
	rr := get(t, seededServer(t), "/records?labels=new")
	require.Equal(t, http.StatusOK, rr.Code)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0]["label"])
	assert.Equal(t, 1.0, records[0]["runIndex"])
}

func TestMissingLabelsIsBadRequest(t *testing.T) {
	server := NewServer(&stubService{}, nil)
	for _, path := range []string{"/records", "/aggregate", "/compare?labels=,", "/summaries"} {
		rr := get(t, server, path)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
		assert.Contains(t, rr.Body.String(), "labels")
	}
}

func TestServiceErrorIsInternal(t *testing.T) {
	server := NewServer(&stubService{err: errors.New("db down")}, nil)

	rr := get(t, server, "/aggregate?labels=a")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db down")
}

func TestMetricsEndpoint(t *testing.T) {
	rr := get(t, NewServer(&stubService{}, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "# HELP")
}
