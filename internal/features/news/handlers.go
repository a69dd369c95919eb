package news

import (
	"net/http"
	"strings"

	"omninews/internal/core"
	"omninews/internal/feed"
	"omninews/internal/features/views"
	"omninews/internal/models"
)

// category reads the category query parameter. No category means the first
// section.
func category(r *http.Request) (models.NewsCategory, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("category"))
	if raw == "" {
		return models.NewsCategories[0], nil
	}

	c := models.NewsCategory(raw)
	if !c.Valid() {
		return "", core.NewValidationError("Unknown news category: "+raw, nil)
	}
	return c, nil
}

// Feed returns the category feed, loading its first page if needed
func (f *Feature) Feed(w http.ResponseWriter, r *http.Request) {
	c, err := category(r)
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	pager := f.feeds.Get(c)
	if err := pager.Ensure(r.Context()); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	f.write(w, c, pager.Snapshot())
}

// More appends the next page of the category feed
func (f *Feature) More(w http.ResponseWriter, r *http.Request) {
	c, err := category(r)
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	// An empty pager loads page 1 here, so each signal fetches one page.
	pager := f.feeds.Get(c)
	if _, err := pager.LoadMore(r.Context()); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	f.write(w, c, pager.Snapshot())
}

// Refresh drops the loaded pages of a category and reloads the first one
func (f *Feature) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := category(r)
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	f.feeds.Reset(c)
	f.Feed(w, r)
}

// Categories lists the sections in display order
func (f *Feature) Categories(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, http.StatusOK, models.NewsCategories)
}

type feedResponse struct {
	Category models.NewsCategory `json:"category"`
	views.FeedPage[views.News]
}

func (f *Feature) write(w http.ResponseWriter, c models.NewsCategory, page feed.Page[models.NewsItem]) {
	now := f.now()
	core.WriteJSON(w, http.StatusOK, feedResponse{
		Category: c,
		FeedPage: views.FromPage(page, func(n models.NewsItem) views.News { return views.NewNews(n, now) }),
	})
}
