package render

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"perf-tester/internal/domain"
)

//go:embed templates/report.html.tmpl
var templatesFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templatesFS, "templates/report.html.tmpl"))

const (
	KindDetailed  = "Detailed"
	KindAggregate = "Aggregate"
)

type cell struct {
	Text  string
	Class string
}

type page struct {
	Title       string
	GeneratedAt string
	LabelList   string
	Kind        string
	Baseline    string
	Headers     []string
	Rows        [][]cell
}

func plainCells(values []string) []cell {
	out := make([]cell, len(values))
	for i, v := range values {
		out[i] = cell{Text: v}
	}
	return out
}

func unitHeader(prefix string, m domain.Metric) string {
	h := prefix + m.Label()
	if u := m.Unit(); u != "" {
		h += " (" + u + ")"
	}
	return h
}

// WriteRecordsHTML renders the detailed report document.
func WriteRecordsHTML(w io.Writer, labels []string, records []domain.MeasurementRecord, at time.Time) error {
	headers := []string{"URL", "Label", "Run #"}
	for _, m := range domain.AllMetrics {
		headers = append(headers, unitHeader("", m))
	}

	rows := make([][]cell, 0, len(records))
	for _, rec := range records {
		rows = append(rows, plainCells(recordCells(rec)))
	}

	return execute(w, page{
		Title:       "Detailed Performance Report - " + strings.Join(labels, ", "),
		GeneratedAt: at.Format(time.RFC1123),
		LabelList:   strings.Join(labels, ", "),
		Kind:        KindDetailed,
		Headers:     headers,
		Rows:        rows,
	})
}

// WriteAggregateHTML renders the aggregate report document. Each average
// column is followed by its delta column when the rows carry a baseline.
func WriteAggregateHTML(w io.Writer, labels []string, rows []domain.ComparisonRow, at time.Time) error {
	baseline := baselineOf(rows)

	headers := []string{"URL", "Label", "Runs"}
	for _, m := range domain.AllMetrics {
		headers = append(headers, unitHeader("Avg ", m))
		if baseline != "" {
			headers = append(headers, deltaHeader(m, baseline))
		}
	}

	out := make([][]cell, 0, len(rows))
	for _, row := range rows {
		cells := []cell{{Text: row.URL}, {Text: row.Label}, {Text: strconv.Itoa(row.Runs)}}
		for _, m := range domain.AllMetrics {
			cells = append(cells, cell{Text: FormatMetric(m, row.Averages.Get(m))})
			if baseline != "" {
				d := row.Deltas.Get(m)
				c := cell{Text: FormatDelta(d)}
				if d.Valid {
					c.Class = DeltaClass(m, d)
				}
				cells = append(cells, c)
			}
		}
		out = append(out, cells)
	}

	return execute(w, page{
		Title:       "Aggregate Performance Report - " + strings.Join(labels, ", "),
		GeneratedAt: at.Format(time.RFC1123),
		LabelList:   strings.Join(labels, ", "),
		Kind:        KindAggregate,
		Baseline:    baseline,
		Headers:     headers,
		Rows:        out,
	})
}

func execute(w io.Writer, p page) error {
	if err := reportTemplate.Execute(w, p); err != nil {
		return errors.Wrap(err, "render html report")
	}
	return nil
}
