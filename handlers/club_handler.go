package handlers

import (
	"io"
	"net/http"

	"github.com/gnbf/badminton-registry/services"
	"github.com/go-chi/chi/v5"
)

type ClubHandler struct {
	clubService  services.ClubService
	mediaService services.MediaService
}

func NewClubHandler(cs services.ClubService, ms services.MediaService) *ClubHandler {
	return &ClubHandler{clubService: cs, mediaService: ms}
}

// List godoc
// @Summary List clubs ordered by name
// @Tags clubs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /clubs [get]
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"clubs": clubs})
}

// Get godoc
// @Summary Club profile with head coach and player count
// @Tags clubs
// @Produce json
// @Param slug path string true "Club slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /clubs/{slug} [get]
func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	club, err := h.clubService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"club": club})
}

func (h *ClubHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.clubService.ListPlayers(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"players": players})
}

// Create godoc
// @Summary Create a club
// @Tags clubs
// @Accept json
// @Produce json
// @Param input body services.CreateClubInput true "Club"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clubs [post]
func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateClubInput
	if !decodeInput(w, r, &input) {
		return
	}
	club, err := h.clubService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"club": club})
}

func (h *ClubHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var input services.UpdateClubInput
	if !decodeInput(w, r, &input) {
		return
	}
	club, err := h.clubService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"club": club})
}

func (h *ClubHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.clubService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo godoc
// @Summary Upload a club logo
// @Tags clubs
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Club ID"
// @Param file formData file true "Image (jpeg, png, gif, webp)"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /clubs/{id}/logo [post]
func (h *ClubHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	club, ok := uploadFile(w, r, func(file io.Reader, contentType string) (interface{}, error) {
		return h.mediaService.UploadClubLogo(r.Context(), id, file, contentType)
	})
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"club": club})
}
