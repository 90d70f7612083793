package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/astrafoundry/focalplane-locator/core"
)

// LookupCollector bundles Prometheus metrics for the detector-lookup
// surface and implements core.MetricsRecorder.
type LookupCollector struct {
	gatherer prometheus.Gatherer

	PointsResolved  *prometheus.CounterVec
	LookupBatches   prometheus.Counter
	LookupDurations prometheus.Histogram

	DetectorsIndexed prometheus.Gauge
}

// NewLookupCollector registers lookup Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil.
func NewLookupCollector(reg prometheus.Registerer) (*LookupCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	points := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_points_resolved_total",
		Help: "Total number of resolved query points, labeled by match outcome.",
	}, []string{"outcome"})
	points, err := registerCounterVec(reg, points, "locator_points_resolved_total")
	if err != nil {
		return nil, err
	}

	batches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locator_lookup_batches_total",
		Help: "Total number of lookup batches processed.",
	})
	batches, err = registerCounter(reg, batches, "locator_lookup_batches_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "locator_lookup_duration_seconds",
		Help:    "Lookup batch latency in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	durations, err = registerHistogram(reg, durations, "locator_lookup_duration_seconds")
	if err != nil {
		return nil, err
	}

	indexed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "locator_detectors_indexed",
		Help: "Number of detectors in the active spatial index.",
	}), "locator_detectors_indexed")
	if err != nil {
		return nil, err
	}

	return &LookupCollector{
		gatherer:         gatherer,
		PointsResolved:   points,
		LookupBatches:    batches,
		LookupDurations:  durations,
		DetectorsIndexed: indexed,
	}, nil
}

// ObserveLookup records one lookup batch.
func (c *LookupCollector) ObserveLookup(results []core.LookupResult, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.PointsResolved != nil {
		for _, r := range results {
			c.PointsResolved.WithLabelValues(outcomeLabel(r.Kind)).Inc()
		}
	}
	if c.LookupBatches != nil {
		c.LookupBatches.Inc()
	}
	if c.LookupDurations != nil {
		c.LookupDurations.Observe(elapsed.Seconds())
	}
}

// SetDetectorsIndexed tracks the size of the active index.
func (c *LookupCollector) SetDetectorsIndexed(n int) {
	if c == nil || c.DetectorsIndexed == nil {
		return
	}
	c.DetectorsIndexed.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *LookupCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func outcomeLabel(k core.MatchKind) string {
	switch k {
	case core.MatchSingle:
		return "single"
	case core.MatchMultiple:
		return "multiple"
	default:
		return "none"
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
