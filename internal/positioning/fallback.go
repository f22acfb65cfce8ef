package positioning

import "celltrack-api/internal/models"

// CellIDFallback reports the serving tower's location as the vehicle position.
// Observations reach it sorted by signal, so the first one is the strongest.
type CellIDFallback struct{}

func (CellIDFallback) Name() models.Method { return models.MethodCellIDFallback }

func (CellIDFallback) Estimate(obs []models.CellObservation, towers TowerMap) (models.PositionEstimate, bool) {
	for _, o := range obs {
		if t, ok := towers[o.Identity()]; ok {
			return models.PositionEstimate{
				Latitude:       t.Lat,
				Longitude:      t.Lon,
				AccuracyMeters: CellIDFallbackAccuracy,
				Method:         models.MethodCellIDFallback,
			}, true
		}
	}
	return models.PositionEstimate{}, false
}
