package handlers

import (
	"net/http"
	"time"

	"github.com/gnbf/badminton-registry/middleware"
	"github.com/gnbf/badminton-registry/services"
)

type AuthHandler struct {
	authService services.AuthService
	tokenTTL    time.Duration
	production  bool
}

func NewAuthHandler(authService services.AuthService, tokenTTL time.Duration, production bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokenTTL:    tokenTTL,
		production:  production,
	}
}

// Register godoc
// @Summary Create an account
// @Description Anyone may register a viewer. Editor and admin accounts need an admin token.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.RegisterInput true "Account"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if !decodeInput(w, r, &input) {
		return
	}

	actor, _ := middleware.ClaimsFromContext(r.Context())
	user, err := h.authService.Register(r.Context(), input, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"status": "registered", "user": user})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if h.production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// Login godoc
// @Summary Sign in
// @Description Returns the access token and also sets it as the access_token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if !decodeInput(w, r, &input) {
		return
	}

	user, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.tokenTTL.Seconds())))
	respond(w, r, http.StatusOK, jsonResponse{
		"status":       "authenticated",
		"user":         user,
		"access_token": token,
	})
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	respond(w, r, http.StatusOK, jsonResponse{"status": "success", "message": "Logged out"})
}

// Verify godoc
// @Summary Describe the current session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "Not authenticated")
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{
		"authenticated": true,
		"user_id":       claims.UserID,
		"email":         claims.Email(),
		"role":          claims.Role,
	})
}

// ForgotPassword godoc
// @Summary Issue a password reset token
// @Description The token is returned only when the email belongs to an account.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.ForgotPasswordInput true "Email"
// @Success 200 {object} map[string]string
// @Router /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input services.ForgotPasswordInput
	if !decodeInput(w, r, &input) {
		return
	}

	token, err := h.authService.ForgotPassword(r.Context(), input.Email)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"status": "ok"}
	if token != "" {
		resp["reset_token"] = token
	}
	respond(w, r, http.StatusOK, resp)
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.ResetPasswordInput true "Token and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input services.ResetPasswordInput
	if !decodeInput(w, r, &input) {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"status": "ok"})
}

// ChangePassword godoc
// @Summary Change the password of the signed in user
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.ChangePasswordInput true "Current and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Current password is incorrect"
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "Not authenticated")
		return
	}
	var input services.ChangePasswordInput
	if !decodeInput(w, r, &input) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), claims.UserID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"status": "password_updated"})
}
