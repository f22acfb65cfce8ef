package models

import (
	"time"

	"github.com/google/uuid"
)

// Method names the estimation tier that produced a position.
type Method string

const (
	MethodTriangulation    Method = "triangulation"
	MethodWeightedCentroid Method = "weighted_centroid"
	MethodCrudeEstimation  Method = "crude_estimation"
	MethodCellIDFallback   Method = "cell_id_fallback"
	MethodNone             Method = "none"
	// MethodDemoMode marks a position taken from the reporter instead of estimated.
	MethodDemoMode Method = "demo_mode"
)

// PositionEstimate is the fused position for one observation batch.
// AccuracyMeters is the known average error of Method, not a confidence interval.
type PositionEstimate struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	Method         Method  `json:"method"`
}

// NoEstimate is returned when no observation resolved to a tower.
func NoEstimate() PositionEstimate {
	return PositionEstimate{Method: MethodNone}
}

// Found reports whether the estimate carries coordinates.
func (p PositionEstimate) Found() bool {
	return p.Method != "" && p.Method != MethodNone
}

// Point returns the estimated coordinate.
func (p PositionEstimate) Point() Point {
	return Point{Lat: p.Latitude, Lon: p.Longitude}
}

// DeviceType distinguishes simulated reporters from real handsets.
type DeviceType string

const (
	DeviceMock        DeviceType = "mock"
	DeviceReal        DeviceType = "real"
	DeviceGPSFallback DeviceType = "gps_fallback"
)

// PositionReport is a single vehicle report as received from the driver app or the ingest topic.
type PositionReport struct {
	VehicleID  string            `json:"vehicle_id" binding:"required"`
	RouteID    string            `json:"route_id,omitempty"`
	Timestamp  time.Time         `json:"timestamp" binding:"required"`
	Cells      []CellObservation `json:"cells" binding:"required,min=1"`
	DeviceType DeviceType        `json:"device_type,omitempty"`
	// Position is a reporter-supplied coordinate, used only when no estimate can be made.
	Position *Point `json:"position,omitempty"`
}

// PositionRecord is a stored estimate for a vehicle.
type PositionRecord struct {
	ID             uuid.UUID        `json:"id"`
	VehicleID      string           `json:"vehicle_id"`
	RouteID        string           `json:"route_id,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
	Estimate       PositionEstimate `json:"estimate"`
	ResolvedTowers int              `json:"resolved_towers"`
	DeviceType     DeviceType       `json:"device_type,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
