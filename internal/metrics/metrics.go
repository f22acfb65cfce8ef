// Package metrics exposes Prometheus counters for tower resolution and position estimation.
package metrics

import (
	"fmt"

	"celltrack-api/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

// Tier labels used by the resolver counters.
const (
	TierMemory     = "memory"
	TierFastCache  = "fast_cache"
	TierStore      = "persistent_store"
	TierExternal   = "external_service"
	TierStatic     = "static_fallback"
	TierUnresolved = "unresolved"
)

// Collector holds the service's Prometheus metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	TowerResolutions *prometheus.CounterVec
	TierErrors       *prometheus.CounterVec
	PositionMethods  *prometheus.CounterVec
	SkippedCells     prometheus.Counter
}

// NewCollector registers the metrics against reg, or the default registerer when reg is nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	resolutions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tower_resolutions_total",
		Help: "Tower lookups by the resolver tier that answered them.",
	}, []string{"tier"}), "tower_resolutions_total")
	if err != nil {
		return nil, err
	}

	tierErrors, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tower_tier_errors_total",
		Help: "Faults caught at a resolver tier and treated as a miss.",
	}, []string{"tier"}), "tower_tier_errors_total")
	if err != nil {
		return nil, err
	}

	methods, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "position_estimates_total",
		Help: "Position estimates by estimation method.",
	}, []string{"method"}), "position_estimates_total")
	if err != nil {
		return nil, err
	}

	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cell_observations_skipped_total",
		Help: "Malformed cell observations dropped before resolution.",
	})
	if err := reg.Register(skipped); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Counter)
		if !ok {
			return nil, fmt.Errorf("collector cell_observations_skipped_total already registered with incompatible type")
		}
		skipped = existing
	}

	return &Collector{
		gatherer:         gatherer,
		TowerResolutions: resolutions,
		TierErrors:       tierErrors,
		PositionMethods:  methods,
		SkippedCells:     skipped,
	}, nil
}

// Gatherer returns the gatherer the metrics were registered with.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveResolution counts a lookup answered by tier.
func (c *Collector) ObserveResolution(tier string) {
	if c == nil || c.TowerResolutions == nil {
		return
	}
	c.TowerResolutions.WithLabelValues(tier).Inc()
}

// ObserveTierError counts a fault at tier.
func (c *Collector) ObserveTierError(tier string) {
	if c == nil || c.TierErrors == nil {
		return
	}
	c.TierErrors.WithLabelValues(tier).Inc()
}

// ObserveEstimate counts an estimate by method.
func (c *Collector) ObserveEstimate(method models.Method) {
	if c == nil || c.PositionMethods == nil {
		return
	}
	c.PositionMethods.WithLabelValues(string(method)).Inc()
}

// ObserveSkippedCells counts dropped observations.
func (c *Collector) ObserveSkippedCells(n int) {
	if c == nil || c.SkippedCells == nil || n <= 0 {
		return
	}
	c.SkippedCells.Add(float64(n))
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
