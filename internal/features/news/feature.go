// Package news is the news view: one growing feed per news category.
package news

import (
	"context"
	"net/http"
	"time"

	"omninews/internal/core"
	"omninews/internal/feed"
	"omninews/internal/features/views"
	"omninews/internal/models"
)

// NewsAPI fetches a page of one category
type NewsAPI interface {
	ByCategory(ctx context.Context, category models.NewsCategory, page int) ([]models.NewsItem, error)
}

// Feature serves the category feeds
type Feature struct {
	*core.BaseFeature
	errs  views.ErrorWriter
	feeds *feed.Set[models.NewsCategory, models.NewsItem]
	now   func() time.Time
}

// NewFeature creates the news view over api
func NewFeature(logger *core.Logger, api NewsAPI, errs views.ErrorWriter) *Feature {
	return &Feature{
		BaseFeature: core.NewBaseFeature("news", "News by category", true, logger),
		errs:        errs,
		feeds: feed.NewSet(func(category models.NewsCategory) feed.PageFunc[models.NewsItem] {
			return func(ctx context.Context, page int) ([]models.NewsItem, error) {
				return api.ByCategory(ctx, category, page)
			}
		}),
		now: time.Now,
	}
}

// Routes returns the HTTP routes for the news view
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodGet, Path: "/news", Handler: f.Feed},
		{Method: http.MethodPost, Path: "/news/more", Handler: f.More},
		{Method: http.MethodPost, Path: "/news/refresh", Handler: f.Refresh},
		{Method: http.MethodGet, Path: "/news/categories", Handler: f.Categories},
	}
}

// Shutdown drops every loaded category
func (f *Feature) Shutdown(ctx context.Context) error {
	f.feeds.ResetAll()
	return f.BaseFeature.Shutdown(ctx)
}
