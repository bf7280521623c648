package handlers

import (
	"net/http"

	"github.com/gnbf/badminton-registry/services"
	"github.com/go-chi/chi/v5"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// TournamentStats godoc
// @Summary Match totals and leaderboards of a tournament
// @Tags tournaments
// @Produce json
// @Param slug path string true "Tournament slug"
// @Success 200 {object} models.TournamentStats
// @Failure 404 {object} map[string]string
// @Router /tournaments/{slug}/stats [get]
func (h *ReportHandler) TournamentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.TournamentStats(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, stats)
}

// Standings godoc
// @Summary Group tables of a team tournament
// @Tags tournaments
// @Produce json
// @Param slug path string true "Tournament slug"
// @Param group_name query string false "Only this group"
// @Success 200 {object} models.Standings
// @Failure 404 {object} map[string]string
// @Router /tournaments/{slug}/standings [get]
func (h *ReportHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.reportService.Standings(r.Context(), chi.URLParam(r, "slug"), r.URL.Query().Get("group_name"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, standings)
}

// Teams godoc
// @Summary Club rosters of a tournament
// @Tags tournaments
// @Produce json
// @Param slug path string true "Tournament slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{slug}/teams [get]
func (h *ReportHandler) Teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.reportService.Teams(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"teams": teams})
}

// CoachStats godoc
// @Summary Tournament participation of a coach
// @Tags coaches
// @Produce json
// @Param slug path string true "Coach slug"
// @Success 200 {object} models.CoachStats
// @Failure 404 {object} map[string]string
// @Router /coaches/{slug}/stats [get]
func (h *ReportHandler) CoachStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.CoachStats(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, stats)
}
