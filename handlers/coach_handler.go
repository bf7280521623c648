package handlers

import (
	"net/http"

	"github.com/gnbf/badminton-registry/services"
	"github.com/go-chi/chi/v5"
)

type CoachHandler struct {
	coachService services.CoachService
}

func NewCoachHandler(cs services.CoachService) *CoachHandler {
	return &CoachHandler{coachService: cs}
}

func (h *CoachHandler) List(w http.ResponseWriter, r *http.Request) {
	coaches, err := h.coachService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"coaches": coaches})
}

func (h *CoachHandler) Get(w http.ResponseWriter, r *http.Request) {
	coach, err := h.coachService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"coach": coach})
}

func (h *CoachHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateCoachInput
	if !decodeInput(w, r, &input) {
		return
	}
	coach, err := h.coachService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"coach": coach})
}

func (h *CoachHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var input services.UpdateCoachInput
	if !decodeInput(w, r, &input) {
		return
	}
	coach, err := h.coachService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"coach": coach})
}

func (h *CoachHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.coachService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
