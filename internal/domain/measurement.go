package domain

import (
	"time"

	"github.com/guregu/null/v5"
)

// Metrics holds the nine nullable metric values of a run, an average or a delta.
type Metrics struct {
	LoadTime    null.Float `json:"loadTime"`
	TTFB        null.Float `json:"ttfb"`
	Performance null.Float `json:"performance"`
	FCP         null.Float `json:"fcp"`
	TTI         null.Float `json:"tti"`
	TBT         null.Float `json:"tbt"`
	SpeedIndex  null.Float `json:"speedIndex"`
	LCP         null.Float `json:"lcp"`
	CLS         null.Float `json:"cls"`
}

func (m *Metrics) field(metric Metric) *null.Float {
	switch metric {
	case LoadTime:
		return &m.LoadTime
	case TTFB:
		return &m.TTFB
	case Performance:
		return &m.Performance
	case FCP:
		return &m.FCP
	case TTI:
		return &m.TTI
	case TBT:
		return &m.TBT
	case SpeedIndex:
		return &m.SpeedIndex
	case LCP:
		return &m.LCP
	case CLS:
		return &m.CLS
	default:
		return nil
	}
}

// Get returns the value of the metric; unknown metrics are invalid.
func (m Metrics) Get(metric Metric) null.Float {
	if f := m.field(metric); f != nil {
		return *f
	}
	return null.Float{}
}

// Set stores value for the metric. Unknown metrics are ignored.
func (m *Metrics) Set(metric Metric, value null.Float) {
	if f := m.field(metric); f != nil {
		*f = value
	}
}

// Measurement is what a measurement provider returns for a single run.
type Measurement struct {
	Metrics    Metrics
	RawPayload null.String
}

// MeasurementRecord is a persisted run. Records are immutable once stored.
type MeasurementRecord struct {
	ID         int64       `json:"id"`
	Label      string      `json:"label"`
	URL        string      `json:"url"`
	RunIndex   int         `json:"runIndex"`
	Timestamp  time.Time   `json:"timestamp"`
	Metrics    Metrics     `json:"metrics"`
	RawPayload null.String `json:"-"`
}

// Validate checks the invariants required before a record is appended.
func (r MeasurementRecord) Validate() error {
	switch {
	case r.Label == "":
		return wrapInvalid("label is required")
	case r.URL == "":
		return wrapInvalid("url is required")
	case r.RunIndex < 1:
		return wrapInvalid("runIndex must be >= 1")
	case r.Timestamp.IsZero():
		return wrapInvalid("timestamp is required")
	}
	return nil
}

// AggregateRow is the per (url, label) summary of a set of records.
type AggregateRow struct {
	URL      string  `json:"url"`
	Label    string  `json:"label"`
	Runs     int     `json:"runs"`
	Averages Metrics `json:"averages"`
}

// ComparisonRow extends an aggregate row with percentage deltas against the
// baseline label's row for the same url.
type ComparisonRow struct {
	AggregateRow
	BaselineLabel string  `json:"baselineLabel"`
	Deltas        Metrics `json:"deltaPct"`
}
