package handlers

import (
	"net/http"

	"github.com/gnbf/badminton-registry/services"
)

type SystemHandler struct {
	healthService services.HealthService
}

func NewSystemHandler(hs services.HealthService) *SystemHandler {
	return &SystemHandler{healthService: hs}
}

// Root godoc
// @Summary Service banner
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, jsonResponse{"status": "operational", "service": "Badminton 360 API"})
}

// Health godoc
// @Summary Database connectivity check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.healthService.Check(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"ok": true, "players": count})
}
