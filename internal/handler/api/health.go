package api

import (
	"net/http"
	"time"

	"github.com/dukerupert/bookworld/internal/handler"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	environment string
	now         func() time.Time
}

func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{environment: environment, now: time.Now}
}

// Check handles GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	handler.OK(w, r, handler.M{
		"message":     "Bookworld India API is running",
		"timestamp":   h.now().UTC().Format(time.RFC3339),
		"environment": h.environment,
	})
}
