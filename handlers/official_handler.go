package handlers

import (
	"net/http"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/services"
	"github.com/go-chi/chi/v5"
)

// OfficialHandler serves umpires and referees; the {kind} path segment picks
// the register.
type OfficialHandler struct {
	officialService services.OfficialService
}

func NewOfficialHandler(svc services.OfficialService) *OfficialHandler {
	return &OfficialHandler{officialService: svc}
}

func kindParam(r *http.Request) models.OfficialKind {
	return models.OfficialKind(chi.URLParam(r, "kind"))
}

// envelope returns the response keys for kind: "umpire"/"umpires".
func envelope(kind models.OfficialKind) (one, many string) {
	return kind.Singular(), string(kind)
}

// List godoc
// @Summary List umpires or referees
// @Tags officials
// @Produce json
// @Param kind path string true "umpires or referees"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /officials/{kind} [get]
func (h *OfficialHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := kindParam(r)
	officials, err := h.officialService.List(r.Context(), kind)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_, many := envelope(kind)
	respond(w, r, http.StatusOK, jsonResponse{many: officials})
}

func (h *OfficialHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind := kindParam(r)
	official, err := h.officialService.GetBySlug(r.Context(), kind, chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	one, _ := envelope(kind)
	respond(w, r, http.StatusOK, jsonResponse{one: official})
}

// UmpireStats godoc
// @Summary Matches officiated by an umpire
// @Tags officials
// @Produce json
// @Param slug path string true "Umpire slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /officials/umpires/{slug}/stats [get]
func (h *OfficialHandler) UmpireStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.officialService.UmpireStats(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"stats": stats})
}

func (h *OfficialHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind := kindParam(r)
	if !kind.Valid() {
		notFoundResponse(w, r)
		return
	}
	var input services.CreateOfficialInput
	if !decodeInput(w, r, &input) {
		return
	}
	official, err := h.officialService.Create(r.Context(), kind, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	one, _ := envelope(kind)
	respond(w, r, http.StatusCreated, jsonResponse{one: official})
}

func (h *OfficialHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind := kindParam(r)
	if !kind.Valid() {
		notFoundResponse(w, r)
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var input services.UpdateOfficialInput
	if !decodeInput(w, r, &input) {
		return
	}
	official, err := h.officialService.Update(r.Context(), kind, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	one, _ := envelope(kind)
	respond(w, r, http.StatusOK, jsonResponse{one: official})
}

func (h *OfficialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.officialService.Delete(r.Context(), kindParam(r), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
