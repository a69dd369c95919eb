// Package search is the search view. A query fans out to three tabs (RSS
// items, channels and external news), each with its own growing feed.
package search

import (
	"net/http"
	"time"

	"omninews/internal/core"
	"omninews/internal/feed"
	"omninews/internal/features/views"
)

// Feature serves search results
type Feature struct {
	*core.BaseFeature
	search *feed.Search
	errs   views.ErrorWriter
	now    func() time.Time
}

// NewFeature creates the search view over s
func NewFeature(logger *core.Logger, s *feed.Search, errs views.ErrorWriter) *Feature {
	return &Feature{
		BaseFeature: core.NewBaseFeature("search", "Search items, channels and news", true, logger),
		search:      s,
		errs:        errs,
		now:         time.Now,
	}
}

// Routes returns the HTTP routes for the search view
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodGet, Path: "/search", Handler: f.Results},
		{Method: http.MethodPost, Path: "/search/{tab}/more", Handler: f.More},
	}
}
