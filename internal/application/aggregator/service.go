package aggregator

import (
	"context"

	"github.com/go-faster/errors"

	"perf-tester/internal/domain"
)

// Service answers report queries by reading the store on every call and
// running the aggregation in memory. Nothing is cached between calls.
type Service struct {
	repo domain.RecordReader
}

// New creates a new aggregator service instance.
func New(repo domain.RecordReader) *Service {
	return &Service{repo: repo}
}

// Records returns the raw records stored for labels.
func (s *Service) Records(ctx context.Context, labels []string) ([]domain.MeasurementRecord, error) {
	labels = domain.Normalize(labels)
	if len(labels) == 0 {
		return nil, domain.ErrNoLabels
	}
	records, err := s.repo.FetchByLabels(ctx, labels)
	if err != nil {
		return nil, errors.Wrap(err, "fetch records")
	}
	return records, nil
}

// Aggregate returns per (url, label) averages for labels.
func (s *Service) Aggregate(ctx context.Context, labels []string) ([]domain.AggregateRow, error) {
	records, err := s.Records(ctx, labels)
	if err != nil {
		return nil, err
	}
	return Aggregate(records, domain.Normalize(labels)), nil
}

// Compare returns aggregates for labels with deltas against baseline. The
// baseline label is fetched even when it is not part of labels.
func (s *Service) Compare(ctx context.Context, baseline string, labels []string) ([]domain.ComparisonRow, error) {
	labels = domain.Normalize(labels)
	if len(labels) == 0 {
		return nil, domain.ErrNoLabels
	}
	withBaseline := labels
	if baseline != "" {
		withBaseline = domain.Normalize(append([]string{baseline}, labels...))
	}
	records, err := s.Records(ctx, withBaseline)
	if err != nil {
		return nil, err
	}
	return AggregateWithBaseline(records, withBaseline, baseline), nil
}

// Summaries returns aggregates computed by the store itself.
func (s *Service) Summaries(ctx context.Context, labels []string) ([]domain.AggregateRow, error) {
	labels = domain.Normalize(labels)
	if len(labels) == 0 {
		return nil, domain.ErrNoLabels
	}
	rows, err := s.repo.AggregateByLabels(ctx, labels)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate in store")
	}
	SortRows(rows)
	return rows, nil
}

var _ domain.ReportService = (*Service)(nil)
