package domain

// Metric identifies one of the nine captured performance metrics.
type Metric int

const (
	LoadTime Metric = iota
	TTFB
	Performance
	FCP
	TTI
	TBT
	SpeedIndex
	LCP
	CLS

	metricCount
)

// AllMetrics lists every metric in display order.
var AllMetrics = []Metric{LoadTime, TTFB, Performance, FCP, TTI, TBT, SpeedIndex, LCP, CLS}

type metricInfo struct {
	key            string
	label          string
	unit           string
	precision      int
	higherIsBetter bool
}

var metricTable = [metricCount]metricInfo{
	LoadTime:    {key: "loadTime", label: "Load Time", unit: "ms"},
	TTFB:        {key: "ttfb", label: "TTFB", unit: "ms"},
	Performance: {key: "performance", label: "Score", higherIsBetter: true},
	FCP:         {key: "fcp", label: "FCP", unit: "ms"},
	TTI:         {key: "tti", label: "TTI", unit: "ms"},
	TBT:         {key: "tbt", label: "TBT", unit: "ms"},
	SpeedIndex:  {key: "speedIndex", label: "SpeedIdx", unit: "ms"},
	LCP:         {key: "lcp", label: "LCP", unit: "ms"},
	CLS:         {key: "cls", label: "CLS", precision: 3},
}

func (m Metric) valid() bool { return m >= 0 && m < metricCount }

func (m Metric) info() metricInfo {
	if !m.valid() {
		return metricInfo{}
	}
	return metricTable[m]
}

// Key is the JSON field name of the metric.
func (m Metric) Key() string { return m.info().key }

// Label is the column header used in reports.
func (m Metric) Label() string { return m.info().label }

// Unit is "ms" for timings and empty for unitless scores.
func (m Metric) Unit() string { return m.info().unit }

// Precision is the number of decimals used when the metric value is displayed.
func (m Metric) Precision() int { return m.info().precision }

// HigherIsBetter reports the metric direction. Only renderers use it.
func (m Metric) HigherIsBetter() bool { return m.info().higherIsBetter }

func (m Metric) String() string { return m.Key() }
