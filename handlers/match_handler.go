package handlers

import (
	"net/http"

	"github.com/gnbf/badminton-registry/services"
	"github.com/gnbf/badminton-registry/validation"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// GetTie godoc
// @Summary A club tie with its individual matches
// @Tags matches
// @Produce json
// @Param id path int true "Tie ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /matches/ties/{id} [get]
func (h *MatchHandler) GetTie(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	tie, err := h.matchService.GetTie(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tie": tie})
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	match, err := h.matchService.GetMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"match": match})
}

func (h *MatchHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"matches": matches})
}

func (h *MatchHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.ListRecent(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"matches": matches})
}

func (h *MatchHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	stats, err := h.matchService.PlayerStats(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"stats": stats})
}

// HeadToHead godoc
// @Summary Head-to-head record of two players
// @Tags matches
// @Produce json
// @Param player1 query int true "First player ID"
// @Param player2 query int true "Second player ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /matches/stats/head-to-head [get]
func (h *MatchHandler) HeadToHead(w http.ResponseWriter, r *http.Request) {
	p1, ok := queryInt(w, r, "player1")
	if !ok {
		return
	}
	p2, ok := queryInt(w, r, "player2")
	if !ok {
		return
	}
	errs := validation.Errors{}
	if p1 < 1 {
		errs.Add("player1", "is required")
	}
	if p2 < 1 {
		errs.Add("player2", "is required")
	}
	if len(errs) > 0 {
		failedValidationResponse(w, r, errs)
		return
	}

	h2h, err := h.matchService.HeadToHead(r.Context(), p1, p2)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"head_to_head": h2h})
}

func (h *MatchHandler) CreateTie(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTieInput
	if !decodeInput(w, r, &input) {
		return
	}
	tie, err := h.matchService.CreateTie(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"tie": tie})
}

// CreateMatch godoc
// @Summary Record an individual match
// @Description Singles use player_1_id and player_2_id. Doubles use side_1 and side_2 with two players each.
// @Tags matches
// @Accept json
// @Produce json
// @Param input body services.CreateMatchInput true "Match"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/individual [post]
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if !decodeInput(w, r, &input) {
		return
	}
	match, err := h.matchService.CreateMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"match": match})
}
