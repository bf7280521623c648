package handlers

import (
	"io"
	"net/http"

	"github.com/gnbf/badminton-registry/services"
	"github.com/go-chi/chi/v5"
)

type PlayerHandler struct {
	playerService services.PlayerService
	mediaService  services.MediaService
}

func NewPlayerHandler(ps services.PlayerService, ms services.MediaService) *PlayerHandler {
	return &PlayerHandler{playerService: ps, mediaService: ms}
}

// List godoc
// @Summary List players
// @Tags players
// @Produce json
// @Param gender query string false "male or female"
// @Param club_id query int false "Club ID"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /players [get]
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	var clubID *int
	if r.URL.Query().Has("club_id") {
		id, ok := queryInt(w, r, "club_id")
		if !ok {
			return
		}
		clubID = &id
	}

	players, err := h.playerService.List(r.Context(), r.URL.Query().Get("gender"), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"players": players})
}

func (h *PlayerHandler) ListByGender(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.ListByGender(r.Context(), chi.URLParam(r, "gender"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"players": players})
}

// Get godoc
// @Summary Player profile with club and current rankings
// @Tags players
// @Produce json
// @Param slug path string true "Player slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /players/{slug} [get]
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.playerService.GetProfile(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"player": profile})
}

func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.playerService.Stats(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"stats": stats})
}

func (h *PlayerHandler) MatchHistory(w http.ResponseWriter, r *http.Request) {
	matches, err := h.playerService.MatchHistory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"matches": matches})
}

func (h *PlayerHandler) TournamentHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.playerService.TournamentHistory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tournaments": history})
}

// Create godoc
// @Summary Register a player
// @Description The slug is derived from the name when omitted.
// @Tags players
// @Accept json
// @Produce json
// @Param input body services.CreatePlayerInput true "Player"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Duplicate slug or registration number"
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /players [post]
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePlayerInput
	if !decodeInput(w, r, &input) {
		return
	}
	player, err := h.playerService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"player": player})
}

// Update godoc
// @Summary Update a player
// @Description Only the fields present in the body change.
// @Tags players
// @Accept json
// @Produce json
// @Param id path int true "Player ID"
// @Param input body services.UpdatePlayerInput true "Changes"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /players/{id} [put]
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var input services.UpdatePlayerInput
	if !decodeInput(w, r, &input) {
		return
	}
	player, err := h.playerService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"player": player})
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.playerService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayerHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	player, ok := uploadFile(w, r, func(file io.Reader, contentType string) (interface{}, error) {
		return h.mediaService.UploadPlayerPhoto(r.Context(), id, file, contentType)
	})
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"player": player})
}
