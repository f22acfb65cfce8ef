// Package positioning fuses resolved tower locations and radio measurements into a
// single position estimate. Everything here is synchronous and free of I/O: callers
// hand in towers that were already resolved.
package positioning

import (
	"sort"

	"celltrack-api/internal/models"
)

// Fixed per-method accuracies in meters. They reflect each method's known average
// error and are not derived from the input.
const (
	TriangulationAccuracy    = 175.0
	CrudeEstimationAccuracy  = 250.0
	WeightedCentroidAccuracy = 400.0
	CellIDFallbackAccuracy   = 800.0
)

const (
	// TimingAdvanceUnitMeters is the range covered by one GSM timing advance step.
	TimingAdvanceUnitMeters = 550.0
	// PathLossExponent is the empirical urban exponent used by the weighted centroid.
	PathLossExponent = 0.22
	// HighDensityThresholdMeters bounds the mean tower spacing of a dense network.
	HighDensityThresholdMeters = 800.0
	// MaxTriangulationTowers caps how many ranged towers enter the solver.
	MaxTriangulationTowers = 5
)

// TowerMap maps a tower identity to its resolved coordinate.
type TowerMap map[models.TowerIdentity]models.Point

// Strategy is one estimation tier. Estimate returns false when the tier cannot
// produce a numerically valid result, handing control to the next tier.
type Strategy interface {
	Name() models.Method
	Estimate(obs []models.CellObservation, towers TowerMap) (models.PositionEstimate, bool)
}

// Engine evaluates its strategies in order and returns the first result.
type Engine struct {
	strategies []Strategy
}

// NewEngine creates the engine with the standard tier order:
// triangulation, statistical fusion, cell id fallback.
func NewEngine() *Engine {
	return NewEngineWithStrategies(
		Triangulation{},
		StatisticalFusion{},
		CellIDFallback{},
	)
}

// NewEngineWithStrategies creates an engine with a custom tier list.
func NewEngineWithStrategies(strategies ...Strategy) *Engine {
	return &Engine{strategies: strategies}
}

// Estimate produces a position for the observation batch. Observations whose tower
// is absent from towers are ignored. The result has method none when nothing resolved.
func (e *Engine) Estimate(obs []models.CellObservation, towers TowerMap) models.PositionEstimate {
	resolved := ResolvedObservations(obs, towers)
	if len(resolved) == 0 {
		return models.NoEstimate()
	}

	for _, s := range e.strategies {
		if est, ok := s.Estimate(resolved, towers); ok {
			return est
		}
	}
	return models.NoEstimate()
}

// ResolvedObservations keeps the observations with a known tower, ordered by
// signal strength descending. The sort is stable so equal signals keep report order.
func ResolvedObservations(obs []models.CellObservation, towers TowerMap) []models.CellObservation {
	resolved := make([]models.CellObservation, 0, len(obs))
	for _, o := range obs {
		if _, ok := towers[o.Identity()]; ok {
			resolved = append(resolved, o)
		}
	}
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].SignalStrength > resolved[j].SignalStrength
	})
	return resolved
}
