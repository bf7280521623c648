package handlers

import (
	"net/http"

	"github.com/gnbf/badminton-registry/services"
	"github.com/go-chi/chi/v5"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rs services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rs}
}

// ByCategory godoc
// @Summary Ranking table of one category
// @Tags rankings
// @Produce json
// @Param category path string true "MS, WS, MD, WD or XD"
// @Param limit query int false "Rows (default 100, max 200)"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /rankings/category/{category} [get]
func (h *RankingHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	category := chi.URLParam(r, "category")
	rankings, err := h.rankingService.ByCategory(r.Context(), category, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"rankings": rankings})
}

func (h *RankingHandler) Global(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.rankingService.Global(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"rankings": rankings})
}

func (h *RankingHandler) ForPlayer(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.rankingService.ForPlayer(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, rankings)
}

// History godoc
// @Summary Daily rank history of a player
// @Tags rankings
// @Produce json
// @Param slug path string true "Player slug"
// @Param category query string false "Limit to one category"
// @Param days query int false "Days back (7 to 365, default 90)"
// @Success 200 {object} models.RankingHistory
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /rankings/player/{slug}/history [get]
func (h *RankingHandler) History(w http.ResponseWriter, r *http.Request) {
	days := services.DefaultHistoryDays
	if r.URL.Query().Has("days") {
		v, ok := queryInt(w, r, "days")
		if !ok {
			return
		}
		days = v
	}
	history, err := h.rankingService.History(r.Context(), chi.URLParam(r, "slug"), r.URL.Query().Get("category"), days)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, history)
}

func (h *RankingHandler) ForTournament(w http.ResponseWriter, r *http.Request) {
	points, err := h.rankingService.ForTournament(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"points": points})
}

func (h *RankingHandler) TopPlayers(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	players, err := h.rankingService.TopPlayers(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"players": players})
}

// Calculate godoc
// @Summary Award ranking points for one tournament
// @Description Replaces the tournament's points and rebuilds every category table.
// @Tags rankings
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /rankings/calculate/{tournamentID} [post]
func (h *RankingHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "tournamentID")
	if !ok {
		return
	}
	summary, err := h.rankingService.Calculate(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"status": "success", "summary": summary})
}

// Recalculate godoc
// @Summary Recalculate points for every tournament
// @Tags rankings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /rankings/recalculate [post]
func (h *RankingHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.rankingService.RecalculateAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"status": "success", "result": result})
}
