package memory

import (
	"context"
	"sort"
	"sync"

	"perf-tester/internal/application/aggregator"
	"perf-tester/internal/domain"
)

// Repository stores measurement records in memory and satisfies the store contract.
type Repository struct {
	mu      sync.RWMutex
	records []domain.MeasurementRecord
	nextID  int64
	closed  bool
}

// New creates an empty in-memory repository instance.
func New() *Repository {
	return &Repository{}
}

// Seed replaces the internal storage with the provided sample data. Records
// without an id are numbered in order.
func (r *Repository) Seed(records []domain.MeasurementRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]domain.MeasurementRecord, len(records))
	copy(copied, records)
	r.nextID = 0
	for i := range copied {
		if copied[i].ID == 0 {
			copied[i].ID = r.nextID + 1
		}
		if copied[i].ID > r.nextID {
			r.nextID = copied[i].ID
		}
	}
	r.records = copied
}

// Append stores a record and returns the assigned id.
func (r *Repository) Append(_ context.Context, record domain.MeasurementRecord) (int64, error) {
	if err := record.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}
	r.nextID++
	record.ID = r.nextID
	record.Timestamp = record.Timestamp.UTC()
	r.records = append(r.records, record)
	return record.ID, nil
}

// FetchByLabels returns the records of the given labels ordered by url, label, run index.
func (r *Repository) FetchByLabels(_ context.Context, labels []string) ([]domain.MeasurementRecord, error) {
	if len(labels) == 0 {
		return []domain.MeasurementRecord{}, nil
	}
	wanted := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		wanted[l] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}
	out := make([]domain.MeasurementRecord, 0, len(r.records))
	for i := range r.records {
		if _, ok := wanted[r.records[i].Label]; ok {
			out = append(out, r.records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.URL != b.URL {
			return a.URL < b.URL
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		if a.RunIndex != b.RunIndex {
			return a.RunIndex < b.RunIndex
		}
		return a.ID < b.ID
	})
	return out, nil
}

// AggregateByLabels groups the stored records the same way the SQL store does.
func (r *Repository) AggregateByLabels(ctx context.Context, labels []string) ([]domain.AggregateRow, error) {
	records, err := r.FetchByLabels(ctx, labels)
	if err != nil {
		return nil, err
	}
	return aggregator.Aggregate(records, labels), nil
}

// Close marks the repository as closed. It is safe to call more than once.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

var _ domain.RecordStore = (*Repository)(nil)
