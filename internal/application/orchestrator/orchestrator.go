package orchestrator

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"perf-tester/internal/domain"
	"perf-tester/internal/infra"
	"perf-tester/internal/render"
)

// Logger defines the logging behaviour required by the orchestrator.
type Logger interface {
	Printf(ctx context.Context, format string, v ...any)
	Warnf(ctx context.Context, format string, v ...any)
}

// Batch describes one invocation: every url is measured Repeat times under Label.
type Batch struct {
	Label   string
	URLs    []string
	Repeat  int
	Headful bool
}

// Summary reports what a Run did.
type Summary struct {
	Attempted int
	Persisted int
	Failed    int
	RecordIDs []int64
}

// Orchestrator drives the measurement provider sequentially and persists
// every successful run.
type Orchestrator struct {
	provider domain.MeasurementProvider
	store    domain.RecordWriter
	logger   Logger
	now      func() time.Time
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(provider domain.MeasurementProvider, store domain.RecordWriter, logger Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{provider: provider, store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run measures the batch. Provider failures are logged and skipped; a store
// failure aborts the run and is returned together with the partial summary.
func (o *Orchestrator) Run(ctx context.Context, batch Batch) (Summary, error) {
	var summary Summary

	if batch.Label == "" {
		return summary, errors.New("orchestrator: label is required")
	}
	urls := domain.Normalize(batch.URLs)
	if len(urls) == 0 {
		return summary, domain.ErrNoURLs
	}
	repeat := batch.Repeat
	if repeat < 1 {
		repeat = 1
	}

	for _, url := range urls {
		for run := 1; run <= repeat; run++ {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			summary.Attempted++
			o.printf(ctx, "[%s] (%s) Run #%d...", batch.Label, url, run)

			start := time.Now()
			m, err := o.provider.Measure(ctx, url, domain.MeasureOptions{Headful: batch.Headful})
			if err != nil {
				infra.ObserveMeasurement(infra.OutcomeFailure, time.Since(start))
				if ctxErr := ctx.Err(); ctxErr != nil {
					return summary, ctxErr
				}
				summary.Failed++
				o.warnf(ctx, "Error on %s run #%d (label %s): %v", url, run, batch.Label, err)
				continue
			}
			infra.ObserveMeasurement(infra.OutcomeSuccess, time.Since(start))

			record := domain.MeasurementRecord{
				Label:      batch.Label,
				URL:        url,
				RunIndex:   run,
				Timestamp:  o.now().UTC(),
				Metrics:    m.Metrics,
				RawPayload: m.RawPayload,
			}
			id, err := o.store.Append(ctx, record)
			if err != nil {
				return summary, errors.Wrapf(err, "persist %s run #%d", url, run)
			}
			summary.Persisted++
			summary.RecordIDs = append(summary.RecordIDs, id)
			o.printf(ctx, "Success: Score=%s, LCP=%s, CLS=%s",
				display(domain.Performance, m.Metrics), display(domain.LCP, m.Metrics), display(domain.CLS, m.Metrics))
		}
	}

	return summary, nil
}

func (o *Orchestrator) printf(ctx context.Context, format string, v ...any) {
	if o.logger == nil {
		return
	}
	o.logger.Printf(ctx, format, v...)
}

func (o *Orchestrator) warnf(ctx context.Context, format string, v ...any) {
	if o.logger == nil {
		return
	}
	o.logger.Warnf(ctx, format, v...)
}

func display(metric domain.Metric, metrics domain.Metrics) string {
	if v := render.FormatMetric(metric, metrics.Get(metric)); v != "" {
		return v
	}
	return "n/a"
}
