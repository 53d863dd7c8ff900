package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-tester/internal/domain"
)

var generatedAt = time.Date(2026, 10, 17, 9, 30, 15, 0, time.UTC)

func comparisonRows() []domain.ComparisonRow {
	return []domain.ComparisonRow{
		{
			AggregateRow: domain.AggregateRow{URL: "a", Label: "base", Runs: 2, Averages: domain.Metrics{
				LoadTime: null.FloatFrom(1100), Performance: null.FloatFrom(90), CLS: null.FloatFrom(0.1),
			}},
			BaselineLabel: "base",
			Deltas:        domain.Metrics{LoadTime: null.FloatFrom(0), Performance: null.FloatFrom(0), CLS: null.FloatFrom(0)},
		},
		{
			AggregateRow: domain.AggregateRow{URL: "a", Label: "new", Runs: 1, Averages: domain.Metrics{
				LoadTime: null.FloatFrom(900.4), Performance: null.FloatFrom(80), CLS: null.FloatFrom(0.12345),
			}},
			BaselineLabel: "base",
			Deltas:        domain.Metrics{LoadTime: null.FloatFrom(-18.2), Performance: null.FloatFrom(-11.1), CLS: null.FloatFrom(23.5)},
		},
	}
}

func TestFormatMetricPrecision(t *testing.T) {
	assert.Equal(t, "1235", FormatMetric(domain.LCP, null.FloatFrom(1234.6)))
	assert.Equal(t, "0.123", FormatMetric(domain.CLS, null.FloatFrom(0.12345)))
	assert.Equal(t, "", FormatMetric(domain.CLS, null.Float{}))
}

func TestFormatDeltaSign(t *testing.T) {
	assert.Equal(t, "+10.0%", FormatDelta(null.FloatFrom(10)))
	assert.Equal(t, "-18.2%", FormatDelta(null.FloatFrom(-18.2)))
	assert.Equal(t, "0.0%", FormatDelta(null.FloatFrom(0)))
	assert.Equal(t, "", FormatDelta(null.Float{}))
}

func TestDeltaClassUsesDirection(t *testing.T) {
	assert.Equal(t, "diff-worse", DeltaClass(domain.LoadTime, null.FloatFrom(5)))
	assert.Equal(t, "diff-better", DeltaClass(domain.LoadTime, null.FloatFrom(-5)))
	assert.Equal(t, "diff-better", DeltaClass(domain.Performance, null.FloatFrom(5)))
	assert.Equal(t, "diff-worse", DeltaClass(domain.Performance, null.FloatFrom(-5)))
	assert.Equal(t, "diff-neutral", DeltaClass(domain.CLS, null.FloatFrom(0)))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "v1-v2-2026-10-17T09-30-15.html", FileName([]string{"v1", "v2"}, false, generatedAt))
	assert.Equal(t, "v1-aggregate-2026-10-17T09-30-15.html", FileName([]string{"v1"}, true, generatedAt))
}

func TestWriteRecordsTable(t *testing.T) {
	t.Log("Шаг 1: печатаем детальную таблицу")
	var buf bytes.Buffer
	records := []domain.MeasurementRecord{
		{URL: "https://a", Label: "v1", RunIndex: 1, Metrics: domain.Metrics{LoadTime: null.FloatFrom(1500.7), CLS: null.FloatFrom(0.05)}},
	}

	require.NoError(t, WriteRecordsTable(&buf, records))

	t.Log("Шаг 2: сверяем заголовок, разделитель и строку")
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "URL | Label | Run # | Load Time | TTFB | Score | FCP | TTI | TBT | SpeedIdx | LCP | CLS", lines[0])
	assert.Equal(t, strings.Repeat("--- | ", 11)+"---", lines[1])
	assert.Equal(t, "https://a | v1 | 1 | 1501 |  |  |  |  |  |  |  | 0.050", lines[2])
}

func TestWriteAggregateTableWithBaseline(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteAggregateTable(&buf, comparisonRows()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "URL | Label | Runs | Avg Load Time"))
	assert.True(t, strings.HasSuffix(lines[0], "CLS vs base (%)"))
	assert.Equal(t, "a | new | 1 | 900 |  | 80 |  |  |  |  |  | 0.123 | -18.2% |  | -11.1% |  |  |  |  |  | +23.5%", lines[3])
}

func TestWriteAggregateTableWithoutBaseline(t *testing.T) {
	var buf bytes.Buffer
	rows := comparisonRows()
	for i := range rows {
		rows[i].BaselineLabel = ""
	}

	require.NoError(t, WriteAggregateTable(&buf, rows))

	assert.NotContains(t, buf.String(), " vs ")
	assert.Len(t, strings.Split(strings.SplitN(buf.String(), "\n", 2)[0], cellSeparator), 12)
}

func TestWriteAggregateHTML(t *testing.T) {
	t.Log("Шаг 1: строим HTML-отчёт по агрегатам")
	var buf bytes.Buffer

	require.NoError(t, WriteAggregateHTML(&buf, []string{"base", "new"}, comparisonRows(), generatedAt))

	t.Log("Шаг 2: проверяем заголовок, базу и классы дельт")
	html := buf.String()
	assert.Contains(t, html, "<title>Aggregate Performance Report - base, new</title>")
	assert.Contains(t, html, "<strong>Baseline:</strong> base")
	assert.Contains(t, html, "<th>Avg Load Time (ms)</th>")
	assert.Contains(t, html, "<th>Load Time vs base (%)</th>")
	assert.Contains(t, html, `<td class="diff-better">-18.2%</td>`)
	assert.Contains(t, html, `<td class="diff-worse">-11.1%</td>`)
	assert.Contains(t, html, `<td class="diff-worse">&#43;23.5%</td>`)
	assert.Contains(t, html, `<td class="diff-neutral">0.0%</td>`)
}

func TestWriteRecordsHTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	records := []domain.MeasurementRecord{{URL: "https://a/?q=<script>", Label: "v1", RunIndex: 1}}

	require.NoError(t, WriteRecordsHTML(&buf, []string{"v1"}, records, generatedAt))

	html := buf.String()
	assert.Contains(t, html, "Detailed Performance Report - v1")
	assert.Contains(t, html, "<strong>Report Type:</strong> Detailed")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "Baseline:")
}
