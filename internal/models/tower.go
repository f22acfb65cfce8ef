package models

import "time"

// TowerSource names the resolver tier that answered a lookup.
type TowerSource string

const (
	SourceMemory          TowerSource = "memory"
	SourceFastCache       TowerSource = "fast_cache"
	SourcePersistentStore TowerSource = "persistent_store"
	SourceExternalService TowerSource = "external_service"
	SourceStaticFallback  TowerSource = "static_fallback"
)

// TowerOrigin is the persisted provenance of a tower record.
type TowerOrigin string

const (
	OriginExternalService TowerOrigin = "external_service"
	OriginStaticFallback  TowerOrigin = "static_fallback"
	OriginImported        TowerOrigin = "imported"
)

// TowerLocation is the best known geographic position of a cell tower.
type TowerLocation struct {
	Identity    TowerIdentity `json:"identity"`
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
	RangeMeters *int          `json:"range_meters,omitempty"`
	Radio       string        `json:"radio,omitempty"`
	Source      TowerSource   `json:"source"`
	Origin      TowerOrigin   `json:"origin"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Point returns the tower coordinate.
func (t TowerLocation) Point() Point {
	return Point{Lat: t.Latitude, Lon: t.Longitude}
}

// WithSource returns a copy of the location tagged with the answering tier.
func (t TowerLocation) WithSource(src TowerSource) TowerLocation {
	t.Source = src
	return t
}

// Point is a WGS 84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
