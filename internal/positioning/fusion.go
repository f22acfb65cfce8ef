package positioning

import (
	"math"

	"celltrack-api/internal/geo"
	"celltrack-api/internal/models"
)

// StatisticalFusion combines two or more resolved towers by signal strength. Dense
// networks use the crude estimation method first; everything else, and any dense
// case it cannot settle, uses the weighted centroid.
type StatisticalFusion struct{}

func (StatisticalFusion) Name() models.Method { return models.MethodWeightedCentroid }

func (StatisticalFusion) Estimate(obs []models.CellObservation, towers TowerMap) (models.PositionEstimate, bool) {
	if len(obs) < 2 {
		return models.PositionEstimate{}, false
	}

	if len(obs) >= 3 && IsHighDensity(towerPoints(obs, towers)) {
		if est, ok := (CrudeEstimation{}).Estimate(obs, towers); ok {
			return est, true
		}
	}
	return WeightedCentroid{}.Estimate(obs, towers)
}

// IsHighDensity reports whether the mean pairwise distance between towers is under
// HighDensityThresholdMeters. Fewer than two towers is never dense.
func IsHighDensity(towers []models.Point) bool {
	mean, ok := geo.MeanPairwiseDistance(towers)
	return ok && mean < HighDensityThresholdMeters
}

// CrudeEstimation places one candidate per tower pair on the segment between them,
// positioned by the signal ratio, rejects candidates outside one standard deviation
// and averages the rest.
type CrudeEstimation struct{}

func (CrudeEstimation) Name() models.Method { return models.MethodCrudeEstimation }

func (CrudeEstimation) Estimate(obs []models.CellObservation, towers TowerMap) (models.PositionEstimate, bool) {
	if len(obs) < 3 {
		return models.PositionEstimate{}, false
	}

	var candidates []models.Point
	for i := 0; i < len(obs); i++ {
		a, ok := towers[obs[i].Identity()]
		if !ok {
			continue
		}
		for j := i + 1; j < len(obs); j++ {
			b, ok := towers[obs[j].Identity()]
			if !ok {
				continue
			}
			ratio := 1.0
			if obs[i].SignalStrength != 0 {
				ratio = float64(obs[j].SignalStrength) / float64(obs[i].SignalStrength)
			}
			w := 1 / (1 + math.Abs(ratio))
			candidates = append(candidates, models.Point{
				Lat: w*a.Lat + (1-w)*b.Lat,
				Lon: w*a.Lon + (1-w)*b.Lon,
			})
		}
	}
	if len(candidates) == 0 {
		return models.PositionEstimate{}, false
	}

	kept := withinOneSigma(candidates)
	if len(kept) == 0 {
		kept = candidates
	}
	c := geo.Centroid(kept)
	return models.PositionEstimate{
		Latitude:       c.Lat,
		Longitude:      c.Lon,
		AccuracyMeters: CrudeEstimationAccuracy,
		Method:         models.MethodCrudeEstimation,
	}, true
}

// withinOneSigma keeps the points within one population standard deviation of
// the mean on both axes.
func withinOneSigma(points []models.Point) []models.Point {
	mean := geo.Centroid(points)
	var varLat, varLon float64
	for _, p := range points {
		varLat += (p.Lat - mean.Lat) * (p.Lat - mean.Lat)
		varLon += (p.Lon - mean.Lon) * (p.Lon - mean.Lon)
	}
	n := float64(len(points))
	sdLat := math.Sqrt(varLat / n)
	sdLon := math.Sqrt(varLon / n)

	kept := make([]models.Point, 0, len(points))
	for _, p := range points {
		if math.Abs(p.Lat-mean.Lat) <= sdLat && math.Abs(p.Lon-mean.Lon) <= sdLon {
			kept = append(kept, p)
		}
	}
	return kept
}

// WeightedCentroid averages tower coordinates weighted by 1/(maxRssi-rssi+1)^p.
type WeightedCentroid struct{}

func (WeightedCentroid) Name() models.Method { return models.MethodWeightedCentroid }

func (WeightedCentroid) Estimate(obs []models.CellObservation, towers TowerMap) (models.PositionEstimate, bool) {
	if len(obs) == 0 {
		return models.PositionEstimate{}, false
	}

	maxRssi := obs[0].SignalStrength
	for _, o := range obs[1:] {
		if o.SignalStrength > maxRssi {
			maxRssi = o.SignalStrength
		}
	}

	var lat, lon, total float64
	for _, o := range obs {
		t, ok := towers[o.Identity()]
		if !ok {
			continue
		}
		w := 1 / math.Pow(float64(maxRssi-o.SignalStrength+1), PathLossExponent)
		if !isFinite(w) {
			continue
		}
		lat += w * t.Lat
		lon += w * t.Lon
		total += w
	}
	if total == 0 {
		return models.PositionEstimate{}, false
	}
	return models.PositionEstimate{
		Latitude:       lat / total,
		Longitude:      lon / total,
		AccuracyMeters: WeightedCentroidAccuracy,
		Method:         models.MethodWeightedCentroid,
	}, true
}

func towerPoints(obs []models.CellObservation, towers TowerMap) []models.Point {
	seen := make(map[models.TowerIdentity]struct{}, len(obs))
	points := make([]models.Point, 0, len(obs))
	for _, o := range obs {
		id := o.Identity()
		t, ok := towers[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		points = append(points, t)
	}
	return points
}
