package render

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"perf-tester/internal/domain"
)

const cellSeparator = " | "

// RecordHeaders are the column headers of the detailed report.
func RecordHeaders() []string {
	headers := []string{"URL", "Label", "Run #"}
	for _, m := range domain.AllMetrics {
		headers = append(headers, m.Label())
	}
	return headers
}

// AggregateHeaders are the column headers of the aggregate report. Delta
// columns are appended when baseline is not empty.
func AggregateHeaders(baseline string) []string {
	headers := []string{"URL", "Label", "Runs"}
	for _, m := range domain.AllMetrics {
		headers = append(headers, "Avg "+m.Label())
	}
	if baseline != "" {
		for _, m := range domain.AllMetrics {
			headers = append(headers, deltaHeader(m, baseline))
		}
	}
	return headers
}

func deltaHeader(m domain.Metric, baseline string) string {
	return m.Label() + " vs " + baseline + " (%)"
}

func recordCells(rec domain.MeasurementRecord) []string {
	cells := []string{rec.URL, rec.Label, strconv.Itoa(rec.RunIndex)}
	for _, m := range domain.AllMetrics {
		cells = append(cells, FormatMetric(m, rec.Metrics.Get(m)))
	}
	return cells
}

func aggregateCells(row domain.ComparisonRow, withDeltas bool) []string {
	cells := []string{row.URL, row.Label, strconv.Itoa(row.Runs)}
	for _, m := range domain.AllMetrics {
		cells = append(cells, FormatMetric(m, row.Averages.Get(m)))
	}
	if withDeltas {
		for _, m := range domain.AllMetrics {
			cells = append(cells, FormatDelta(row.Deltas.Get(m)))
		}
	}
	return cells
}

// WriteRecordsTable prints the detailed pipe table in input order.
func WriteRecordsTable(w io.Writer, records []domain.MeasurementRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordCells(rec))
	}
	return writeTable(w, RecordHeaders(), rows)
}

// WriteAggregateTable prints the aggregate pipe table in input order. Delta
// columns are present when the rows carry a baseline label.
func WriteAggregateTable(w io.Writer, rows []domain.ComparisonRow) error {
	baseline := baselineOf(rows)
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, aggregateCells(row, baseline != ""))
	}
	return writeTable(w, AggregateHeaders(baseline), out)
}

func baselineOf(rows []domain.ComparisonRow) string {
	if len(rows) == 0 {
		return ""
	}
	return rows[0].BaselineLabel
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	separator := make([]string, len(headers))
	for i := range separator {
		separator[i] = "---"
	}

	writeLine(bw, headers)
	writeLine(bw, separator)
	for _, row := range rows {
		writeLine(bw, row)
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, cells []string) {
	_, _ = w.WriteString(strings.Join(cells, cellSeparator))
	_ = w.WriteByte('\n')
}
