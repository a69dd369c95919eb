package views

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"omninews/internal/core"
)

// DecodeJSON reads the request body into dst
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return core.NewValidationError("Invalid request body", err)
	}
	return nil
}

// IDParam reads a positive integer URL parameter
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.NewValidationError("Invalid "+name, err)
	}
	return id, nil
}

// PageQuery reads the page query parameter, defaulting to 1
func PageQuery(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, core.NewValidationError("page must be a positive integer", err)
	}
	return page, nil
}

// ErrorWriter writes err as a response, redirecting expired sessions
type ErrorWriter interface {
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}
