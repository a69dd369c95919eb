package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"omninews/internal/core"
	"omninews/internal/models"
)

// Handler provides the login and logout endpoints of the shell
type Handler struct {
	service    *Service
	middleware *Middleware
	logger     *core.Logger
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service, middleware *Middleware, logger *core.Logger) *Handler {
	return &Handler{
		service:    service,
		middleware: middleware,
		logger:     logger.ForFeature("auth"),
	}
}

// DemoLoginHandler handles the demo credentials form
func (h *Handler) DemoLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req DemoLoginRequest
	if !h.decode(w, r, &req, func(form url.Values) {
		req.Email = form.Get("email")
		req.Password = form.Get("password")
	}) {
		return
	}

	user, err := h.service.DemoLogin(r.Context(), req.Email, req.Password)
	h.finishLogin(w, r, user, err)
}

// GoogleLoginHandler completes a Google sign-in from its OAuth access token
func (h *Handler) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if !h.decode(w, r, &req, func(form url.Values) {
		req.AccessToken = form.Get("access_token")
	}) {
		return
	}

	user, err := h.service.GoogleLogin(r.Context(), req.AccessToken)
	h.finishLogin(w, r, user, err)
}

// AppleLoginHandler signs in with an Apple provider id
func (h *Handler) AppleLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req AppleLoginRequest
	if !h.decode(w, r, &req, func(form url.Values) {
		req.ProviderID = form.Get("provider_id")
		req.Email = form.Get("email")
	}) {
		return
	}

	user, err := h.service.AppleLogin(r.Context(), req.ProviderID, req.Email)
	h.finishLogin(w, r, user, err)
}

// LogoutHandler removes the local session
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if err := h.service.Logout(r.Context()); err != nil {
		h.middleware.HandleError(w, r, err)
		return
	}

	if !IsAnonymous(user) {
		h.logger.Info("User logged out", "email", user.Email)
	}

	if wantsJSON(r) {
		core.WriteJSON(w, http.StatusOK, LoginResponse{Redirect: h.middleware.LoginPath()})
		return
	}
	http.Redirect(w, r, h.middleware.LoginPath(), http.StatusSeeOther)
}

// decode reads a JSON body, or form values through fromForm
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any, fromForm func(url.Values)) bool {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			core.WriteErrorResponse(w, http.StatusBadRequest, core.NewValidationError("Invalid request body", err))
			return false
		}
		return true
	}

	if err := r.ParseForm(); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewValidationError("Invalid form", err))
		return false
	}
	fromForm(r.PostForm)
	return true
}

func (h *Handler) finishLogin(w http.ResponseWriter, r *http.Request, user models.User, err error) {
	if err != nil {
		h.logger.WithContext(r.Context()).Info("Login failed", "error", err)
		if wantsJSON(r) {
			core.HandleError(w, err)
			return
		}
		appErr, _ := core.AsAppError(err)
		http.Redirect(w, r, h.middleware.LoginPath()+"?error="+url.QueryEscape(appErr.Message), http.StatusSeeOther)
		return
	}

	h.logger.WithContext(r.Context()).Info("User logged in", "email", user.Email)
	if wantsJSON(r) {
		core.WriteJSON(w, http.StatusOK, LoginResponse{User: user, Redirect: h.middleware.HomePath()})
		return
	}
	http.Redirect(w, r, h.middleware.HomePath(), http.StatusSeeOther)
}
