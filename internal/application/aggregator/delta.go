package aggregator

import (
	"math"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
)

const deltaPlaces = 1

// DeltaPct returns ((value - baseline) / baseline) * 100 rounded half away from
// zero to one decimal place. The result is null when either side is null or
// the baseline is not strictly positive.
func DeltaPct(value, baseline null.Float) null.Float {
	if !value.Valid || !baseline.Valid || baseline.Float64 <= 0 {
		return null.Float{}
	}
	pct := (value.Float64 - baseline.Float64) / baseline.Float64 * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return null.Float{}
	}
	rounded := decimal.NewFromFloat(pct).Round(deltaPlaces).InexactFloat64()
	// normalise negative zero
	if rounded == 0 {
		rounded = 0
	}
	return null.FloatFrom(rounded)
}
