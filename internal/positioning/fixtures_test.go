package positioning

import (
	"math"

	"celltrack-api/internal/models"
)

const metersPerDegree = 6371000.0 * math.Pi / 180

func ta(v int) *int { return &v }

func obs(cid, rssi int, timingAdvance *int) models.CellObservation {
	return models.CellObservation{
		CellID:         cid,
		LAC:            101,
		MCC:            404,
		MNC:            45,
		SignalStrength: rssi,
		TimingAdvance:  timingAdvance,
		RadioType:      "GSM",
	}
}

func identity(cid int) models.TowerIdentity {
	return obs(cid, -80, nil).Identity()
}

// equilateral returns three towers roughly side meters apart at the given latitude.
func equilateral(lat, lon, side float64) []models.Point {
	dLat := side / metersPerDegree
	dLon := side / (metersPerDegree * math.Cos(lat*math.Pi/180))
	return []models.Point{
		{Lat: lat, Lon: lon},
		{Lat: lat, Lon: lon + dLon},
		{Lat: lat + dLat*math.Sqrt(3)/2, Lon: lon + dLon/2},
	}
}

func towerMap(points ...models.Point) TowerMap {
	m := TowerMap{}
	for i, p := range points {
		m[identity(i+1)] = p
	}
	return m
}

// knowledgePark is a triangle of towers about 800 m apart.
var knowledgePark = []models.Point{
	{Lat: 28.4700, Lon: 77.4900},
	{Lat: 28.4700, Lon: 77.498184},
	{Lat: 28.476231, Lon: 77.494092},
}
