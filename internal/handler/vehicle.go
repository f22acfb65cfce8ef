package handler

import (
	"context"
	"errors"
	"net/http"

	"celltrack-api/internal/models"
	"celltrack-api/internal/service"

	"github.com/gin-gonic/gin"
)

// VehicleHandler handles vehicle registry requests
type VehicleHandler struct {
	service VehicleService
}

// VehicleService interface for dependency injection
type VehicleService interface {
	RegisterVehicle(context.Context, models.Vehicle) (*models.Vehicle, bool, error)
	GetVehicle(context.Context, string) (*models.Vehicle, error)
	ListVehicles(context.Context) ([]models.Vehicle, error)
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(svc VehicleService) *VehicleHandler {
	return &VehicleHandler{service: svc}
}

// VehicleListResponse lists registered vehicles.
type VehicleListResponse struct {
	Count    int              `json:"count"`
	Vehicles []models.Vehicle `json:"vehicles"`
}

// RegisterResponse reports whether a registration created or updated the vehicle.
type RegisterResponse struct {
	DeviceID string         `json:"device_id"`
	Status   string         `json:"status"`
	Vehicle  models.Vehicle `json:"vehicle"`
}

// ListVehicles godoc
// @Summary      List registered vehicles
// @Tags         vehicles
// @Produce      json
// @Success      200  {object}  VehicleListResponse
// @Router       /api/v1/vehicles [get]
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.service.ListVehicles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, VehicleListResponse{Count: len(vehicles), Vehicles: vehicles})
}

// GetVehicle godoc
// @Summary      Get a registered vehicle
// @Tags         vehicles
// @Produce      json
// @Param        device_id  path      string  true  "Device ID"
// @Success      200        {object}  models.Vehicle
// @Failure      404        {object}  map[string]string
// @Router       /api/v1/vehicles/{device_id} [get]
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	deviceID := c.Param("device_id")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing device id"})
		return
	}

	v, err := h.service.GetVehicle(c.Request.Context(), deviceID)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, v)
}

// RegisterVehicle godoc
// @Summary      Register a vehicle
// @Description  Creates the vehicle, or updates it when the device id is already registered.
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        vehicle  body      models.Vehicle  true  "Vehicle"
// @Success      201      {object}  RegisterResponse
// @Success      200      {object}  RegisterResponse
// @Failure      400      {object}  map[string]string
// @Router       /api/v1/vehicles [post]
func (h *VehicleHandler) RegisterVehicle(c *gin.Context) {
	var req models.Vehicle
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle"})
		return
	}

	v, created, err := h.service.RegisterVehicle(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVehicle) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vehicle store unavailable"})
		return
	}

	if created {
		c.JSON(http.StatusCreated, RegisterResponse{DeviceID: v.DeviceID, Status: "created", Vehicle: *v})
		return
	}
	c.JSON(http.StatusOK, RegisterResponse{DeviceID: v.DeviceID, Status: "updated", Vehicle: *v})
}
