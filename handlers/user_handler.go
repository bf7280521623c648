package handlers

import (
	"net/http"

	"github.com/gnbf/badminton-registry/middleware"
	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/services"
)

type UserHandler struct {
	adminService     services.AdminUserService
	dashboardService services.DashboardService
}

func NewUserHandler(as services.AdminUserService, ds services.DashboardService) *UserHandler {
	return &UserHandler{
		adminService:     as,
		dashboardService: ds,
	}
}

type changeRoleInput struct {
	Role models.UserRole `json:"role" validate:"required,oneof=viewer editor admin"`
}

// List godoc
// @Summary List accounts
// @Tags admin
// @Produce json
// @Param role query string false "viewer, editor or admin"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, at most 100"
// @Success 200 {object} models.UserListResponse
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /admin/users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	users, err := h.adminService.ListUsers(r.Context(), models.UserFilter{
		Role:  models.UserRole(r.URL.Query().Get("role")),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, users)
}

// ChangeRole godoc
// @Summary Change the role of an account
// @Description Admins cannot change their own role.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param input body changeRoleInput true "New role"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/users/{id}/role [patch]
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var input changeRoleInput
	if !decodeInput(w, r, &input) {
		return
	}

	actor, _ := middleware.ClaimsFromContext(r.Context())
	user, err := h.adminService.ChangeRole(r.Context(), actor, id, input.Role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"user": user})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	actor, _ := middleware.ClaimsFromContext(r.Context())
	if err := h.adminService.DeleteUser(r.Context(), actor, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats godoc
// @Summary Registry totals
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"stats": stats})
}
