package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"celltrack-api/internal/models"
	"celltrack-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PositionHandler handles vehicle position requests
type PositionHandler struct {
	service PositionService
}

// PositionService interface for dependency injection
type PositionService interface {
	ProcessReport(context.Context, models.PositionReport) (*models.PositionRecord, error)
	EstimatePosition(context.Context, []models.CellObservation) (models.PositionEstimate, error)
	CurrentPosition(context.Context, string) (*models.PositionRecord, error)
	RecentPositions(context.Context, string, int) ([]models.PositionRecord, error)
}

// NewPositionHandler creates a new position handler
func NewPositionHandler(svc PositionService) *PositionHandler {
	return &PositionHandler{service: svc}
}

// EstimateRequest is the body of a stateless estimation request.
type EstimateRequest struct {
	Cells []models.CellObservation `json:"cells" binding:"required,min=1"`
}

// PositionResponse renders a position record. EstimatedPosition is null when no tower resolved.
type PositionResponse struct {
	ID                uuid.UUID         `json:"id"`
	VehicleID         string            `json:"vehicle_id"`
	RouteID           string            `json:"route_id,omitempty"`
	Timestamp         time.Time         `json:"timestamp"`
	EstimatedPosition *models.Point     `json:"estimated_position"`
	Accuracy          float64           `json:"accuracy"`
	Method            models.Method     `json:"method"`
	ResolvedTowers    int               `json:"resolved_towers"`
	DeviceType        models.DeviceType `json:"device_type,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// EstimateResponse renders a stateless estimate.
type EstimateResponse struct {
	EstimatedPosition *models.Point `json:"estimated_position"`
	Accuracy          float64       `json:"accuracy"`
	Method            models.Method `json:"method"`
}

// HistoryResponse lists recent positions of a vehicle.
type HistoryResponse struct {
	VehicleID string             `json:"vehicle_id"`
	Count     int                `json:"count"`
	Positions []PositionResponse `json:"positions"`
}

func toEstimateResponse(est models.PositionEstimate) EstimateResponse {
	resp := EstimateResponse{Accuracy: est.AccuracyMeters, Method: est.Method}
	if est.Found() {
		p := est.Point()
		resp.EstimatedPosition = &p
	} else {
		resp.Method = models.MethodNone
	}
	return resp
}

func toPositionResponse(rec models.PositionRecord) PositionResponse {
	est := toEstimateResponse(rec.Estimate)
	return PositionResponse{
		ID:                rec.ID,
		VehicleID:         rec.VehicleID,
		RouteID:           rec.RouteID,
		Timestamp:         rec.Timestamp,
		EstimatedPosition: est.EstimatedPosition,
		Accuracy:          est.Accuracy,
		Method:            est.Method,
		ResolvedTowers:    rec.ResolvedTowers,
		DeviceType:        rec.DeviceType,
		CreatedAt:         rec.CreatedAt,
	}
}

// CreatePosition godoc
// @Summary      Submit a position report
// @Description  Estimates the vehicle position from cell observations and stores it.
// @Tags         positions
// @Accept       json
// @Produce      json
// @Param        report  body      models.PositionReport  true  "Position report"
// @Success      201     {object}  PositionResponse
// @Failure      400     {object}  map[string]string
// @Failure      503     {object}  map[string]string
// @Router       /api/v1/positions [post]
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var report models.PositionReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position report"})
		return
	}

	rec, err := h.service.ProcessReport(c.Request.Context(), report)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReport) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position report"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "position store unavailable"})
		return
	}

	c.JSON(http.StatusCreated, toPositionResponse(*rec))
}

// EstimatePosition godoc
// @Summary      Estimate a position
// @Description  Runs cell observations through tower resolution and estimation without storing anything.
// @Tags         positions
// @Accept       json
// @Produce      json
// @Param        request  body      EstimateRequest  true  "Cell observations"
// @Success      200      {object}  EstimateResponse
// @Failure      400      {object}  map[string]string
// @Router       /api/v1/positions/estimate [post]
func (h *PositionHandler) EstimatePosition(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request must contain at least one cell"})
		return
	}

	est, err := h.service.EstimatePosition(c.Request.Context(), req.Cells)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toEstimateResponse(est))
}

// CurrentPosition godoc
// @Summary      Current vehicle position
// @Tags         positions
// @Produce      json
// @Param        vehicle_id  path      string  true  "Vehicle ID"
// @Success      200         {object}  PositionResponse
// @Failure      404         {object}  map[string]string
// @Router       /api/v1/positions/current/{vehicle_id} [get]
func (h *PositionHandler) CurrentPosition(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")
	if vehicleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing vehicle id"})
		return
	}

	rec, err := h.service.CurrentPosition(c.Request.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, service.ErrNoPosition) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no position found for vehicle"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toPositionResponse(*rec))
}

// VehiclePositions godoc
// @Summary      Vehicle position history
// @Tags         positions
// @Produce      json
// @Param        vehicle_id  path      string  true   "Vehicle ID"
// @Param        limit       query     int     false  "Maximum rows"
// @Success      200         {object}  HistoryResponse
// @Failure      400         {object}  map[string]string
// @Router       /api/v1/positions/vehicle/{vehicle_id} [get]
func (h *PositionHandler) VehiclePositions(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")
	if vehicleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing vehicle id"})
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit format"})
			return
		}
		limit = v
	}

	recs, err := h.service.RecentPositions(c.Request.Context(), vehicleID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	positions := make([]PositionResponse, 0, len(recs))
	for _, rec := range recs {
		positions = append(positions, toPositionResponse(rec))
	}
	c.JSON(http.StatusOK, HistoryResponse{VehicleID: vehicleID, Count: len(positions), Positions: positions})
}
