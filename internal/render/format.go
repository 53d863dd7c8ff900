package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v5"

	"perf-tester/internal/domain"
)

// FormatMetric renders a metric value with its display precision. Null values
// render as an empty string.
func FormatMetric(metric domain.Metric, v null.Float) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', metric.Precision(), 64)
}

// FormatDelta renders a percentage delta with one decimal and an explicit
// sign for positive values, e.g. "+10.0%" or "-18.2%".
func FormatDelta(v null.Float) string {
	if !v.Valid {
		return ""
	}
	s := strconv.FormatFloat(v.Float64, 'f', 1, 64)
	if s == "-0.0" {
		s = "0.0"
	}
	if v.Float64 > 0 && s != "0.0" {
		s = "+" + s
	}
	return s + "%"
}

// DeltaClass classifies a delta for styling using the metric direction.
func DeltaClass(metric domain.Metric, v null.Float) string {
	if !v.Valid || v.Float64 == 0 {
		return "diff-neutral"
	}
	worse := v.Float64 > 0
	if metric.HigherIsBetter() {
		worse = !worse
	}
	if worse {
		return "diff-worse"
	}
	return "diff-better"
}

const fileTimeLayout = "2006-01-02T15-04-05"

// FileName builds the report file name: labels joined by "-", an
// "-aggregate" marker for aggregate reports and the UTC creation time.
func FileName(labels []string, aggregate bool, at time.Time) string {
	var b strings.Builder
	b.WriteString(strings.Join(labels, "-"))
	if aggregate {
		b.WriteString("-aggregate")
	}
	b.WriteString("-")
	b.WriteString(at.UTC().Format(fileTimeLayout))
	b.WriteString(".html")
	return b.String()
}
