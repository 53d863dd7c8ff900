package aggregator

import (
	"testing"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
)

func TestDeltaPct(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		value    null.Float
		baseline null.Float
		want     null.Float
	}{
		{"increase", null.FloatFrom(1100), null.FloatFrom(1000), null.FloatFrom(10)},
		{"decrease rounds", null.FloatFrom(800), null.FloatFrom(900), null.FloatFrom(-11.1)},
		{"decrease rounds away from zero", null.FloatFrom(900), null.FloatFrom(1100), null.FloatFrom(-18.2)},
		{"self", null.FloatFrom(42), null.FloatFrom(42), null.FloatFrom(0)},
		{"zero baseline", null.FloatFrom(5), null.FloatFrom(0), null.Float{}},
		{"negative baseline", null.FloatFrom(5), null.FloatFrom(-2), null.Float{}},
		{"null baseline", null.FloatFrom(5), null.Float{}, null.Float{}},
		{"null value", null.Float{}, null.FloatFrom(5), null.Float{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeltaPct(tc.value, tc.baseline))
		})
	}
}
