package synthetic

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"perf-tester/internal/domain"
)

// Config describes the runtime characteristics of the synthetic provider.
type Config struct {
	// Delay simulates the capture duration.
	Delay      time.Duration
	RandSource rand.Source
}

// Provider produces plausible measurements without a browser. It backs dry
// runs of the CLI and local API demos.
type Provider struct {
	delay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a configured provider instance.
func New(cfg Config) *Provider {
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}

	source := cfg.RandSource
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}

	return &Provider{
		delay: cfg.Delay,
		rnd:   rand.New(source),
	}
}

// Measure waits for the configured delay and returns randomised metrics.
func (p *Provider) Measure(ctx context.Context, url string, _ domain.MeasureOptions) (domain.Measurement, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.Measurement{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return domain.Measurement{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ttfb := p.between(40, 400)
	fcp := ttfb + p.between(300, 1500)
	lcp := fcp + p.between(0, 1500)
	tti := lcp + p.between(0, 2000)
	load := tti + p.between(0, 800)

	var m domain.Measurement
	m.Metrics.Set(domain.TTFB, null.FloatFrom(ttfb))
	m.Metrics.Set(domain.FCP, null.FloatFrom(fcp))
	m.Metrics.Set(domain.LCP, null.FloatFrom(lcp))
	m.Metrics.Set(domain.TTI, null.FloatFrom(tti))
	m.Metrics.Set(domain.LoadTime, null.FloatFrom(load))
	m.Metrics.Set(domain.TBT, null.FloatFrom(p.between(0, 600)))
	m.Metrics.Set(domain.SpeedIndex, null.FloatFrom(fcp+p.between(100, 1200)))
	m.Metrics.Set(domain.Performance, null.FloatFrom(float64(p.rnd.Intn(61)+40)))
	m.Metrics.Set(domain.CLS, null.FloatFrom(p.rnd.Float64()*0.25))
	m.RawPayload = null.StringFrom(fmt.Sprintf(`{"source":"synthetic","id":%q,"url":%q}`, uuid.NewString(), url))
	return m, nil
}

func (p *Provider) between(low, high float64) float64 {
	return low + p.rnd.Float64()*(high-low)
}

var _ domain.MeasurementProvider = (*Provider)(nil)
