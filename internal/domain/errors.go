package domain

import "github.com/go-faster/errors"

var (
	// ErrInvalidRecord is returned when a record violates the append invariants.
	ErrInvalidRecord = errors.New("invalid measurement record")
	// ErrNoLabels is returned when a query requires at least one label.
	ErrNoLabels = errors.New("at least one label is required")
	// ErrNoURLs is returned when a run batch resolves to no urls.
	ErrNoURLs = errors.New("at least one url is required")
	// ErrMeasurementFailed marks provider failures for a single run.
	ErrMeasurementFailed = errors.New("measurement failed")
)

func wrapInvalid(reason string) error {
	return errors.Wrap(ErrInvalidRecord, reason)
}
