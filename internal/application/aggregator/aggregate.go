package aggregator

import (
	"sort"

	"github.com/guregu/null/v5"

	"perf-tester/internal/domain"
)

type groupKey struct {
	url   string
	label string
}

type accumulator struct {
	runs   int
	sums   map[domain.Metric]float64
	counts map[domain.Metric]int
}

func newAccumulator() *accumulator {
	return &accumulator{
		sums:   make(map[domain.Metric]float64, len(domain.AllMetrics)),
		counts: make(map[domain.Metric]int, len(domain.AllMetrics)),
	}
}

func (a *accumulator) add(metrics domain.Metrics) {
	a.runs++
	for _, m := range domain.AllMetrics {
		v := metrics.Get(m)
		if !v.Valid {
			continue
		}
		a.sums[m] += v.Float64
		a.counts[m]++
	}
}

func (a *accumulator) averages() domain.Metrics {
	var out domain.Metrics
	for _, m := range domain.AllMetrics {
		n := a.counts[m]
		if n == 0 {
			continue
		}
		out.Set(m, null.FloatFrom(a.sums[m]/float64(n)))
	}
	return out
}

// Aggregate groups records by (url, label) for the requested labels and
// averages every metric over its non-null values. Rows are ordered by url,
// then label. An empty label list yields an empty result.
func Aggregate(records []domain.MeasurementRecord, labels []string) []domain.AggregateRow {
	if len(labels) == 0 {
		return []domain.AggregateRow{}
	}

	wanted := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		wanted[l] = struct{}{}
	}

	groups := make(map[groupKey]*accumulator)
	for i := range records {
		rec := records[i]
		if _, ok := wanted[rec.Label]; !ok {
			continue
		}
		key := groupKey{url: rec.URL, label: rec.Label}
		acc, ok := groups[key]
		if !ok {
			acc = newAccumulator()
			groups[key] = acc
		}
		acc.add(rec.Metrics)
	}

	rows := make([]domain.AggregateRow, 0, len(groups))
	for key, acc := range groups {
		rows = append(rows, domain.AggregateRow{
			URL:      key.url,
			Label:    key.label,
			Runs:     acc.runs,
			Averages: acc.averages(),
		})
	}
	SortRows(rows)
	return rows
}

// AggregateWithBaseline aggregates like Aggregate and attaches, per row, the
// percentage delta of every metric against the baselineLabel row of the same url.
func AggregateWithBaseline(records []domain.MeasurementRecord, labels []string, baselineLabel string) []domain.ComparisonRow {
	return Compare(Aggregate(records, labels), baselineLabel)
}

// Compare attaches baseline deltas to already aggregated rows. The input order
// is preserved.
func Compare(rows []domain.AggregateRow, baselineLabel string) []domain.ComparisonRow {
	baselines := make(map[string]domain.AggregateRow)
	if baselineLabel != "" {
		for _, row := range rows {
			if row.Label == baselineLabel {
				baselines[row.URL] = row
			}
		}
	}

	out := make([]domain.ComparisonRow, 0, len(rows))
	for _, row := range rows {
		cmp := domain.ComparisonRow{AggregateRow: row, BaselineLabel: baselineLabel}
		if base, ok := baselines[row.URL]; ok {
			for _, m := range domain.AllMetrics {
				cmp.Deltas.Set(m, DeltaPct(row.Averages.Get(m), base.Averages.Get(m)))
			}
		}
		out = append(out, cmp)
	}
	return out
}

// SortRows orders rows by url, then label.
func SortRows(rows []domain.AggregateRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].URL != rows[j].URL {
			return rows[i].URL < rows[j].URL
		}
		return rows[i].Label < rows[j].Label
	})
}
