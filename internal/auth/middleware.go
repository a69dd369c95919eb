package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"omninews/internal/api"
	"omninews/internal/core"
	"omninews/internal/models"
)

// Context key for user
type contextKey string

const userContextKey = contextKey("user")

// Middleware guards the shell's protected views
type Middleware struct {
	service  *Service
	basePath string
	logger   *core.Logger
}

// NewMiddleware creates the route guard. basePath is the shell's mount point.
func NewMiddleware(service *Service, basePath string, logger *core.Logger) *Middleware {
	return &Middleware{
		service:  service,
		basePath: basePath,
		logger:   logger.ForFeature("auth"),
	}
}

// LoginPath is where unauthenticated requests are sent
func (m *Middleware) LoginPath() string {
	return m.basePath + "/login"
}

// HomePath is where a successful login lands
func (m *Middleware) HomePath() string {
	return m.basePath + "/"
}

// Authenticate reconciles the session with the stored tokens and adds the
// user to the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := m.service.Reconcile(ctx); err != nil {
			m.logger.WithContext(ctx).Error("Session reconcile failed", "error", err)
		}

		user := AnonymousUser
		if m.service.Authenticated(ctx) {
			if u, ok := m.service.CurrentUser(); ok {
				user = &u
			}
		}

		next.ServeHTTP(w, contextSetUser(r, user))
	})
}

// RequireAuthentication sends anonymous requests to the login view, or
// answers 401 when the caller wants JSON
func (m *Middleware) RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsAnonymous(GetUserFromContext(r)) {
			m.authenticationRequired(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleError writes err for a view request. An expired session sends the
// user back to the login view; everything else becomes a JSON error.
func (m *Middleware) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, api.ErrSessionExpired) {
		m.logger.WithContext(r.Context()).Info("Session expired during request", "path", r.URL.Path)
		m.authenticationRequired(w, r)
		return
	}

	appErr, status := core.AsAppError(err)
	if status >= http.StatusInternalServerError {
		m.logger.WithContext(r.Context()).Error("Request failed", "path", r.URL.Path, "error", err)
	}
	core.WriteErrorResponse(w, status, appErr)
}

func (m *Middleware) authenticationRequired(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		w.Header().Set("Location", m.LoginPath())
		core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewUnauthorizedError("Authentication required", nil))
		return
	}
	http.Redirect(w, r, m.LoginPath(), http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.Contains(r.URL.Path, "/api/")
}

// Context management
func contextSetUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// GetUserFromContext extracts user from request context
func GetUserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return AnonymousUser
	}
	return user
}
