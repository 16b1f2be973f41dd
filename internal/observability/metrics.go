package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineCollector bundles Prometheus metrics for the georeference engine
// and implements core.MetricsRecorder so the core's mutators can drive
// the series directly.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	OriginUpdates       prometheus.Counter
	Rebases             prometheus.Counter
	SubLevelTransitions *prometheus.CounterVec
	RegisteredObjects   prometheus.Gauge
	TickDuration        prometheus.Histogram
}

// NewEngineCollector registers the engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	originUpdates, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georef_origin_updates_total",
		Help: "Total number of georeference origin updates (transform chain recomputes).",
	}), "georef_origin_updates_total")
	if err != nil {
		return nil, err
	}

	rebases, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georef_origin_rebases_total",
		Help: "Total number of floating-origin rebases.",
	}), "georef_origin_rebases_total")
	if err != nil {
		return nil, err
	}

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "georef_sublevel_transitions_total",
		Help: "Sub-level activation transitions, labeled by the level becoming current (empty = top level).",
	}, []string{"level"})
	transitions, err = registerCounterVec(reg, transitions, "georef_sublevel_transitions_total")
	if err != nil {
		return nil, err
	}

	objects, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "georef_registered_objects",
		Help: "Current number of live entries in the georeferenced-object registry.",
	}), "georef_registered_objects")
	if err != nil {
		return nil, err
	}

	tickDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "georef_tick_duration_seconds",
		Help:    "Engine tick latency in seconds.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	}), "georef_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:            gatherer,
		OriginUpdates:       originUpdates,
		Rebases:             rebases,
		SubLevelTransitions: transitions,
		RegisteredObjects:   objects,
		TickDuration:        tickDuration,
	}, nil
}

// RecordOriginUpdate satisfies core.MetricsRecorder.
func (c *EngineCollector) RecordOriginUpdate() {
	if c == nil || c.OriginUpdates == nil {
		return
	}
	c.OriginUpdates.Inc()
}

// RecordRebase satisfies core.MetricsRecorder.
func (c *EngineCollector) RecordRebase() {
	if c == nil || c.Rebases == nil {
		return
	}
	c.Rebases.Inc()
}

// RecordSubLevelTransition satisfies core.MetricsRecorder.
func (c *EngineCollector) RecordSubLevelTransition(level string) {
	if c == nil || c.SubLevelTransitions == nil {
		return
	}
	c.SubLevelTransitions.WithLabelValues(level).Inc()
}

// SetRegisteredObjects satisfies core.MetricsRecorder.
func (c *EngineCollector) SetRegisteredObjects(n int) {
	if c == nil || c.RegisteredObjects == nil {
		return
	}
	c.RegisteredObjects.Set(float64(n))
}

// ObserveTick satisfies core.MetricsRecorder.
func (c *EngineCollector) ObserveTick(d time.Duration) {
	if c == nil || c.TickDuration == nil {
		return
	}
	c.TickDuration.Observe(d.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
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
