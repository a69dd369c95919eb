package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"omninews/internal/auth"
	"omninews/internal/core"
	"omninews/views/portal"
)

const healthTimeout = 2 * time.Second

// PortalHandler serves the shell pages around the feature views
type PortalHandler struct {
	logger   *core.Logger
	registry *core.Registry
	basePath string
	db       *core.Database
}

// NewPortalHandler creates a new portal handler. db may be nil when local
// storage is not database backed.
func NewPortalHandler(logger *core.Logger, registry *core.Registry, basePath string, db *core.Database) *PortalHandler {
	return &PortalHandler{
		logger:   logger,
		registry: registry,
		basePath: basePath,
		db:       db,
	}
}

// ShellHandler serves the signed-in application shell
func (h *PortalHandler) ShellHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	component := portal.Shell(h.basePath, user, h.registry.Nav(h.basePath))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to render shell", "error", err)
	}
}

// NavHandler lists the enabled views
func (h *PortalHandler) NavHandler(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, http.StatusOK, h.registry.Nav(h.basePath))
}

// LoginPageHandler serves the login page
func (h *PortalHandler) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	// Already signed in
	if !auth.IsAnonymous(auth.GetUserFromContext(r)) {
		http.Redirect(w, r, h.basePath+"/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	component := portal.LoginPage(h.basePath, r.URL.Query().Get("error"))
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to render login page", "error", err)
	}
}

// HealthCheckHandler provides a health check endpoint
func (h *PortalHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	storage := "ok"
	if h.db != nil {
		if err := h.db.PingWithTimeout(healthTimeout); err != nil {
			h.logger.Error("Health check failed", "error", err)
			status, storage = http.StatusServiceUnavailable, "unavailable"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  http.StatusText(status),
		"service": "omninews",
		"storage": storage,
	}); err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to write health response", "error", err)
	}
}
