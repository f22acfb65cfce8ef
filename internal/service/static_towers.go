package service

import (
	"celltrack-api/internal/models"
)

// StaticTableVersion identifies the bundled demo tower set.
const StaticTableVersion = "knowledge-park-2024.1"

const staticRangeMeters = 800

// StaticTable is the last-resort tower table consulted when every other tier misses.
type StaticTable struct {
	towers map[models.TowerIdentity]models.TowerLocation
}

// NewStaticTable builds a table from points keyed by identity. A nil map yields the bundled Knowledge Park towers.
func NewStaticTable(points map[models.TowerIdentity]models.Point) *StaticTable {
	if points == nil {
		points = knowledgeParkTowers()
	}
	towers := make(map[models.TowerIdentity]models.TowerLocation, len(points))
	for id, p := range points {
		rng := staticRangeMeters
		towers[id] = models.TowerLocation{
			Identity:    id,
			Latitude:    p.Lat,
			Longitude:   p.Lon,
			RangeMeters: &rng,
			Radio:       "GSM",
			Source:      models.SourceStaticFallback,
			Origin:      models.OriginStaticFallback,
		}
	}
	return &StaticTable{towers: towers}
}

// Get matches on the full identity only.
func (s *StaticTable) Get(id models.TowerIdentity) (models.TowerLocation, bool) {
	if s == nil {
		return models.TowerLocation{}, false
	}
	loc, ok := s.towers[id]
	return loc, ok
}

func (s *StaticTable) Len() int {
	if s == nil {
		return 0
	}
	return len(s.towers)
}

// Knowledge Park, Greater Noida.
func knowledgeParkTowers() map[models.TowerIdentity]models.Point {
	id := func(cid int) models.TowerIdentity {
		return models.TowerIdentity{MCC: 404, MNC: 45, LAC: 101, CellID: cid}
	}
	return map[models.TowerIdentity]models.Point{
		id(12345): {Lat: 28.4744, Lon: 77.4860},
		id(12346): {Lat: 28.4686, Lon: 77.4950},
		id(12347): {Lat: 28.4640, Lon: 77.5045},
		id(12348): {Lat: 28.4670, Lon: 77.4980},
	}
}
