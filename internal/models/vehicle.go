package models

import "time"

// VehicleStatusActive is assigned to vehicles registered without a status.
const VehicleStatusActive = "active"

// Vehicle is a registered reporting device.
type Vehicle struct {
	DeviceID   string     `json:"device_id" binding:"required" validate:"required,max=255"`
	RouteID    string     `json:"route_id,omitempty" validate:"max=255"`
	Status     string     `json:"status" validate:"max=32"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
