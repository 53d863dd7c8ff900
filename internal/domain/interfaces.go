package domain

import "context"

// RecordWriter persists measurement records produced by the orchestrator.
type RecordWriter interface {
	Append(ctx context.Context, record MeasurementRecord) (int64, error)
}

// RecordReader exposes the queries used by the aggregator service.
type RecordReader interface {
	FetchByLabels(ctx context.Context, labels []string) ([]MeasurementRecord, error)
	AggregateByLabels(ctx context.Context, labels []string) ([]AggregateRow, error)
}

// RecordStore is the full store contract with an explicit lifecycle.
type RecordStore interface {
	RecordWriter
	RecordReader
	Close() error
}

// MeasureOptions configures a single provider invocation.
type MeasureOptions struct {
	Headful bool
}

// MeasurementProvider captures metrics for one url. Implementations enforce
// their own timeout.
type MeasurementProvider interface {
	Measure(ctx context.Context, url string, opts MeasureOptions) (Measurement, error)
}

// ReportService describes the read behaviour exposed to transport layers.
type ReportService interface {
	Records(ctx context.Context, labels []string) ([]MeasurementRecord, error)
	Aggregate(ctx context.Context, labels []string) ([]AggregateRow, error)
	Compare(ctx context.Context, baseline string, labels []string) ([]ComparisonRow, error)
	Summaries(ctx context.Context, labels []string) ([]AggregateRow, error)
}
