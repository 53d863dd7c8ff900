package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guregu/null/v5"

	"perf-tester/internal/domain"
	"perf-tester/internal/infrastructure/repository/memory"
)

func newRecord(label, url string, run int, load float64) domain.MeasurementRecord {
	return domain.MeasurementRecord{
		Label:     label,
		URL:       url,
		RunIndex:  run,
		Timestamp: time.Now(),
		Metrics:   domain.Metrics{LoadTime: null.FloatFrom(load)},
	}
}

func TestRepositoryAppendAssignsIncreasingIDs(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	first, err := repo.Append(ctx, newRecord("A", "u", 1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := repo.Append(ctx, newRecord("A", "u", 2, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second <= first {
		t.Fatalf("ids must increase, got %d then %d", first, second)
	}
}

func TestRepositoryAppendValidates(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	_, err := repo.Append(context.Background(), newRecord("", "u", 1, 1))
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestRepositoryFetchByLabels(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	repo.Seed([]domain.MeasurementRecord{
		newRecord("B", "b", 1, 1),
		newRecord("A", "b", 2, 1),
		newRecord("A", "a", 1, 1),
		newRecord("C", "a", 1, 1),
		newRecord("A", "b", 1, 1),
	})

	records, err := repo.FetchByLabels(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	want := []string{"a/A/1", "b/A/1", "b/A/2", "b/B/1"}
	for i, rec := range records {
		got := rec.URL + "/" + rec.Label + "/" + string(rune('0'+rec.RunIndex))
		if got != want[i] {
			t.Fatalf("record %d: expected %s, got %s", i, want[i], got)
		}
	}

	empty, err := repo.FetchByLabels(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result, got %v, %v", empty, err)
	}
}

func TestRepositoryAggregateByLabels(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	repo.Seed([]domain.MeasurementRecord{
		newRecord("A", "u", 1, 10),
		newRecord("A", "u", 2, 20),
	})

	rows, err := repo.AggregateByLabels(context.Background(), []string{"A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Runs != 2 || rows[0].Averages.LoadTime.Float64 != 15 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestRepositoryConcurrentAppend(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(run int) {
			defer wg.Done()
			if _, err := repo.Append(context.Background(), newRecord("A", "u", run, 1)); err != nil {
				t.Errorf("append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	records, _ := repo.FetchByLabels(context.Background(), []string{"A"})
	if len(records) != 20 {
		t.Fatalf("expected 20 records, got %d", len(records))
	}
}

func TestRepositoryClosed(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := repo.Append(context.Background(), newRecord("A", "u", 1, 1)); !errors.Is(err, memory.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
