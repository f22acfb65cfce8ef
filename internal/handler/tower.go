package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"celltrack-api/internal/models"

	"github.com/gin-gonic/gin"
)

// TowerHandler handles tower catalog and diagnostic requests
type TowerHandler struct {
	service TowerService
}

// TowerService interface for dependency injection
type TowerService interface {
	ListTowers(context.Context, int) ([]models.TowerLocation, error)
	NearbyTowers(context.Context, float64, float64, int) ([]models.TowerLocation, error)
	ResolveTowers(context.Context, []models.TowerIdentity) map[models.TowerIdentity]models.TowerLocation
}

// NewTowerHandler creates a new tower handler
func NewTowerHandler(svc TowerService) *TowerHandler {
	return &TowerHandler{service: svc}
}

// ResolveRequest lists the tower identities to resolve.
type ResolveRequest struct {
	Towers []models.TowerIdentity `json:"towers" binding:"required,min=1"`
}

// ResolveResult reports the outcome for one requested identity.
type ResolveResult struct {
	Identity models.TowerIdentity  `json:"identity"`
	Resolved bool                  `json:"resolved"`
	Location *models.TowerLocation `json:"location,omitempty"`
}

// ListTowers godoc
// @Summary      List stored towers
// @Tags         towers
// @Produce      json
// @Param        limit  query     int  false  "Maximum rows"
// @Success      200    {array}   models.TowerLocation
// @Failure      400    {object}  map[string]string
// @Router       /api/v1/towers [get]
func (h *TowerHandler) ListTowers(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit format"})
			return
		}
		limit = v
	}

	towers, err := h.service.ListTowers(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, towers)
}

// NearbyTowers godoc
// @Summary      Towers near a coordinate
// @Tags         towers
// @Produce      json
// @Param        lat     query     number   true   "Latitude"
// @Param        lon     query     number   true   "Longitude"
// @Param        radius  query     integer  false  "Radius in meters"
// @Success      200     {array}   models.TowerLocation
// @Failure      400     {object}  map[string]string
// @Router       /api/v1/towers/nearby [get]
func (h *TowerHandler) NearbyTowers(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	if !finite(lat) || !finite(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	radius := 0
	if radiusStr := c.Query("radius"); radiusStr != "" {
		radius, err = strconv.Atoi(radiusStr)
		if err != nil || radius < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius format"})
			return
		}
	}

	towers, err := h.service.NearbyTowers(c.Request.Context(), lat, lon, radius)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, towers)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ResolveTowers godoc
// @Summary      Resolve tower identities
// @Description  Runs each identity through the resolver chain and reports which tier answered.
// @Tags         towers
// @Accept       json
// @Produce      json
// @Param        request  body      ResolveRequest  true  "Tower identities"
// @Success      200      {array}   ResolveResult
// @Failure      400      {object}  map[string]string
// @Router       /api/v1/towers/resolve [post]
func (h *TowerHandler) ResolveTowers(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request must contain at least one tower"})
		return
	}

	located := h.service.ResolveTowers(c.Request.Context(), req.Towers)

	results := make([]ResolveResult, 0, len(req.Towers))
	for _, id := range req.Towers {
		res := ResolveResult{Identity: id}
		if loc, ok := located[id]; ok {
			res.Resolved = true
			res.Location = &loc
		}
		results = append(results, res)
	}

	c.JSON(http.StatusOK, results)
}
