package lighthouse

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"perf-tester/internal/domain"
)

const (
	defaultBin     = "lighthouse"
	defaultTimeout = 2 * time.Minute
	headlessFlag   = "--headless"
)

// Config controls how the lighthouse CLI is invoked.
type Config struct {
	Bin         string
	Timeout     time.Duration
	ChromeFlags string
	Runner      CommandRunner
}

// Provider measures a url by running the lighthouse CLI and reading the
// report it prints to stdout.
type Provider struct {
	bin         string
	timeout     time.Duration
	chromeFlags []string
	runner      CommandRunner
}

func New(cfg Config) *Provider {
	p := &Provider{
		bin:         cfg.Bin,
		timeout:     cfg.Timeout,
		chromeFlags: strings.Fields(cfg.ChromeFlags),
		runner:      cfg.Runner,
	}
	if p.bin == "" {
		p.bin = defaultBin
	}
	if p.timeout <= 0 {
		p.timeout = defaultTimeout
	}
	if p.runner == nil {
		p.runner = ExecRunner{}
	}
	return p
}

// Measure runs one capture. The configured timeout bounds the whole process.
func (p *Provider) Measure(ctx context.Context, url string, opts domain.MeasureOptions) (domain.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.runner.Run(ctx, p.bin, p.args(url, opts)...)
	if err != nil {
		return domain.Measurement{}, errors.Wrapf(domain.ErrMeasurementFailed, "%s: %v", url, err)
	}

	m, err := Parse(out)
	if err != nil {
		return domain.Measurement{}, errors.Wrapf(domain.ErrMeasurementFailed, "%s: %v", url, err)
	}
	return m, nil
}

func (p *Provider) args(url string, opts domain.MeasureOptions) []string {
	flags := make([]string, 0, len(p.chromeFlags)+1)
	if !opts.Headful {
		flags = append(flags, headlessFlag)
	}
	for _, f := range p.chromeFlags {
		if f == headlessFlag || strings.HasPrefix(f, headlessFlag+"=") {
			continue
		}
		flags = append(flags, f)
	}

	args := []string{
		url,
		"--output=json",
		"--output-path=stdout",
		"--quiet",
		"--only-categories=performance",
	}
	if len(flags) > 0 {
		args = append(args, "--chrome-flags="+strings.Join(flags, " "))
	}
	return args
}

var auditPaths = map[domain.Metric]string{
	domain.TTFB:       "audits.server-response-time.numericValue",
	domain.FCP:        "audits.first-contentful-paint.numericValue",
	domain.TTI:        "audits.interactive.numericValue",
	domain.TBT:        "audits.total-blocking-time.numericValue",
	domain.SpeedIndex: "audits.speed-index.numericValue",
	domain.LCP:        "audits.largest-contentful-paint.numericValue",
	domain.CLS:        "audits.cumulative-layout-shift.numericValue",
}

const (
	observedLoadPath = "audits.metrics.details.items.0.observedLoad"
	scorePath        = "categories.performance.score"
	runtimeErrorPath = "runtimeError"
)

// Parse extracts the nine metrics from a lighthouse JSON report. Metrics that
// are missing from the report stay null; a reported zero stays zero.
func Parse(report []byte) (domain.Measurement, error) {
	if !gjson.ValidBytes(report) {
		return domain.Measurement{}, errors.New("lighthouse output is not valid JSON")
	}
	doc := gjson.ParseBytes(report)

	if rtErr := doc.Get(runtimeErrorPath); rtErr.Exists() && rtErr.Get("code").String() != "" {
		return domain.Measurement{}, errors.Errorf("lighthouse runtime error %s: %s",
			rtErr.Get("code").String(), rtErr.Get("message").String())
	}
	if !doc.Get("audits").IsObject() {
		return domain.Measurement{}, errors.New("lighthouse output has no audits")
	}

	var metrics domain.Metrics
	for metric, path := range auditPaths {
		metrics.Set(metric, number(doc.Get(path)))
	}

	load := number(doc.Get(observedLoadPath))
	if !load.Valid {
		load = metrics.TTI
	}
	metrics.LoadTime = load

	if score := number(doc.Get(scorePath)); score.Valid {
		pct := decimal.NewFromFloat(score.Float64).Mul(decimal.NewFromInt(100))
		metrics.Performance = null.FloatFrom(pct.InexactFloat64())
	}

	return domain.Measurement{Metrics: metrics, RawPayload: null.StringFrom(string(report))}, nil
}

func number(r gjson.Result) null.Float {
	if r.Type != gjson.Number {
		return null.Float{}
	}
	return null.FloatFrom(r.Float())
}

var _ domain.MeasurementProvider = (*Provider)(nil)
