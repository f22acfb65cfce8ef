package handler

import (
	"context"
	"net/http"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency that can report its liveness.
type Pinger interface {
	Ping(context.Context) error
}

// HealthHandler reports the status of the store and cache connections
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler over the named dependencies.
// Entries that are nil, including nil pointers behind the interface, are dropped.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	live := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if isNilPinger(p) {
			continue
		}
		live[name] = p
	}
	return &HealthHandler{checks: live, timeout: 2 * time.Second}
}

func isNilPinger(p Pinger) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Interface, reflect.Chan, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Health godoc
// @Summary      Service health
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok"}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body[name] = "unavailable"
			continue
		}
		body[name] = "ok"
	}

	c.JSON(status, body)
}
