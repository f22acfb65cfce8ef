package positioning

import (
	"math"

	"celltrack-api/internal/geo"
	"celltrack-api/internal/models"
)

// Triangulation ranges the vehicle from GSM timing advance and solves for the
// position by nonlinear least squares.
type Triangulation struct{}

func (Triangulation) Name() models.Method { return models.MethodTriangulation }

func (Triangulation) Estimate(obs []models.CellObservation, towers TowerMap) (models.PositionEstimate, bool) {
	var coords []models.Point
	var ranges []float64
	for _, o := range obs {
		if !o.HasTimingAdvance() {
			continue
		}
		tower, ok := towers[o.Identity()]
		if !ok {
			continue
		}
		coords = append(coords, tower)
		ranges = append(ranges, float64(*o.TimingAdvance)*TimingAdvanceUnitMeters)
		if len(coords) == MaxTriangulationTowers {
			break
		}
	}
	if len(coords) < 3 {
		return models.PositionEstimate{}, false
	}

	pos, ok := Trilaterate(coords, ranges)
	if !ok {
		return models.PositionEstimate{}, false
	}
	return models.PositionEstimate{
		Latitude:       pos.Lat,
		Longitude:      pos.Lon,
		AccuracyMeters: TriangulationAccuracy,
		Method:         models.MethodTriangulation,
	}, true
}

// minSpreadRatio is the smallest accepted ratio between the minor and major
// axis of the tower layout. Below it the ranges admit two mirrored solutions.
const minSpreadRatio = 0.05

// spansPlane reports whether the towers are spread in two dimensions. It
// projects them to local meters around their centroid and compares the
// singular values of the centered coordinate matrix.
func spansPlane(towers []models.Point) bool {
	origin := geo.Centroid(towers)
	var see, sen, snn float64
	for _, t := range towers {
		e, n := geo.LocalMeters(origin, t)
		see += e * e
		sen += e * n
		snn += n * n
	}
	lo, hi := symmetricEigenvalues(see, sen, snn)
	if hi <= 0 || lo <= 0 {
		return false
	}
	return math.Sqrt(lo/hi) >= minSpreadRatio
}

// Trilaterate finds the point whose great-circle distances to towers best match
// ranges (meters) in the least-squares sense, starting from the tower centroid.
// Towers laid out along a line are rejected before solving.
func Trilaterate(towers []models.Point, ranges []float64) (models.Point, bool) {
	if len(towers) < 3 || len(towers) != len(ranges) {
		return models.Point{}, false
	}
	if !spansPlane(towers) {
		return models.Point{}, false
	}

	residuals := func(p models.Point, out []float64) {
		for i, t := range towers {
			out[i] = geo.DistanceMeters(p, t) - ranges[i]
		}
	}

	res, err := levenbergMarquardt(residuals, len(towers), geo.Centroid(towers), defaultSolverOptions())
	if err != nil {
		return models.Point{}, false
	}
	return res, true
}
