package handlers

import (
	"io"
	"net/http"

	"github.com/gnbf/badminton-registry/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	mediaService      services.MediaService
}

func NewTournamentHandler(ts services.TournamentService, ms services.MediaService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts, mediaService: ms}
}

// List godoc
// @Summary List tournaments, newest first
// @Tags tournaments
// @Produce json
// @Param status query string false "draft, upcoming, in_progress, finished or cancelled"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /tournaments [get]
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tournaments": tournaments})
}

// Search godoc
// @Summary Search tournaments by name, venue city or venue name
// @Tags tournaments
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /tournaments/search [get]
func (h *TournamentHandler) Search(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tournaments": tournaments})
}

// Get godoc
// @Summary Tournament with venue, events, courts, schedule, entries and winners
// @Tags tournaments
// @Produce json
// @Param slug path string true "Tournament slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{slug} [get]
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.tournamentService.GetDetail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tournament": detail})
}

func (h *TournamentHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.tournamentService.ListMatches(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"matches": matches})
}

func (h *TournamentHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	lineups, err := h.tournamentService.ListPlayers(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"players": lineups})
}

// Create godoc
// @Summary Create a tournament
// @Description Nested venue, events, courts, time blocks and entries are written in the same transaction.
// @Tags tournaments
// @Accept json
// @Produce json
// @Param input body services.CreateTournamentInput true "Tournament"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if !decodeInput(w, r, &input) {
		return
	}
	detail, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"tournament": detail})
}

// Update godoc
// @Summary Update a tournament
// @Description Omitted fields are left alone. A nested list that is present replaces the stored one.
// @Tags tournaments
// @Accept json
// @Produce json
// @Param id path int true "Tournament ID"
// @Param input body services.UpdateTournamentInput true "Changes"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{id} [put]
func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var input services.UpdateTournamentInput
	if !decodeInput(w, r, &input) {
		return
	}
	detail, err := h.tournamentService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tournament": detail})
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.tournamentService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	tournament, ok := uploadFile(w, r, func(file io.Reader, contentType string) (interface{}, error) {
		return h.mediaService.UploadTournamentLogo(r.Context(), id, file, contentType)
	})
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tournament": tournament})
}

// AddEntry godoc
// @Summary Register a player for an event
// @Tags tournaments
// @Accept json
// @Produce json
// @Param id path int true "Tournament ID"
// @Param input body services.EntryInput true "Entry"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Player already entered in this event"
// @Security BearerAuth
// @Router /tournaments/{id}/entries [post]
func (h *TournamentHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var input services.EntryInput
	if !decodeInput(w, r, &input) {
		return
	}
	entry, err := h.tournamentService.AddEntry(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"entry": entry})
}

// DeleteEntry godoc
// @Summary Withdraw an entry
// @Tags tournaments
// @Param id path int true "Tournament ID"
// @Param entryID path int true "Entry ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{id}/entries/{entryID} [delete]
func (h *TournamentHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	entryID, ok := idParam(w, r, "entryID")
	if !ok {
		return
	}
	if err := h.tournamentService.DeleteEntry(r.Context(), id, entryID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentHandler) AddLineup(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var input services.LineupInput
	if !decodeInput(w, r, &input) {
		return
	}
	lineup, err := h.tournamentService.AddLineup(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"lineup": lineup})
}

func (h *TournamentHandler) ListWinners(w http.ResponseWriter, r *http.Request) {
	winners, err := h.tournamentService.ListWinners(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"winners": winners})
}

// SetWinners godoc
// @Summary Record the podium of a tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Param id path int true "Tournament ID"
// @Param input body services.WinnersInput true "Podium"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{id}/winners [put]
func (h *TournamentHandler) SetWinners(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var input services.WinnersInput
	if !decodeInput(w, r, &input) {
		return
	}
	winners, err := h.tournamentService.SetWinners(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"winners": winners})
}
