package settings

import (
	"net/http"

	"omninews/internal/core"
	"omninews/internal/features/views"
	"omninews/internal/models"
)

// Feature serves the settings view
type Feature struct {
	*core.BaseFeature
	service   *Service
	account   Account
	errs      views.ErrorWriter
	loginPath string
}

// NewFeature creates the settings view. Leaving the account redirects to
// loginPath.
func NewFeature(logger *core.Logger, service *Service, account Account, errs views.ErrorWriter, loginPath string) *Feature {
	return &Feature{
		BaseFeature: core.NewBaseFeature("settings", "Account and preferences", true, logger),
		service:     service,
		account:     account,
		errs:        errs,
		loginPath:   loginPath,
	}
}

// Routes returns the HTTP routes for the settings view
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodGet, Path: "/settings", Handler: f.Show},
		{Method: http.MethodPut, Path: "/settings/theme", Handler: f.UpdateTheme},
		{Method: http.MethodPut, Path: "/settings/notifications", Handler: f.UpdateNotifications},
		{Method: http.MethodPost, Path: "/settings/logout", Handler: f.Logout},
		{Method: http.MethodDelete, Path: "/settings/account", Handler: f.DeleteAccount},
		{Method: http.MethodGet, Path: "/settings/premium", Handler: f.Premium},
		{Method: http.MethodPost, Path: "/settings/premium", Handler: f.RegisterPremium},
	}
}

type settingsResponse struct {
	User   *models.User `json:"user"`
	Theme  string       `json:"theme"`
	Themes []string     `json:"themes"`
}

func (f *Feature) Show(w http.ResponseWriter, r *http.Request) {
	theme, err := f.service.Theme(r.Context())
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	resp := settingsResponse{Theme: theme, Themes: Themes}
	if user, ok := f.account.CurrentUser(); ok {
		resp.User = &user
	}
	core.WriteJSON(w, http.StatusOK, resp)
}

func (f *Feature) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req models.ThemeRequest
	if err := views.DecodeJSON(r, &req); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	theme, err := f.service.SetTheme(r.Context(), req.Theme)
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, models.ThemeResponse{Theme: theme})
}

type notificationsRequest struct {
	Enabled bool `json:"enabled"`
}

func (f *Feature) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	var req notificationsRequest
	if err := views.DecodeJSON(r, &req); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	if err := f.service.SetNotifications(r.Context(), req.Enabled); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type leaveResponse struct {
	Redirect string `json:"redirect"`
}

func (f *Feature) Logout(w http.ResponseWriter, r *http.Request) {
	if err := f.account.Logout(r.Context()); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, leaveResponse{Redirect: f.loginPath})
}

func (f *Feature) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := f.account.DeleteAccount(r.Context()); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, leaveResponse{Redirect: f.loginPath})
}

func (f *Feature) Premium(w http.ResponseWriter, r *http.Request) {
	status, err := f.service.Premium(r.Context())
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, status)
}

func (f *Feature) RegisterPremium(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterSubscriptionRequest
	if err := views.DecodeJSON(r, &req); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	if err := f.service.RegisterPremium(r.Context(), req); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	status, err := f.service.Premium(r.Context())
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, status)
}
