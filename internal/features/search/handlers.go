package search

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"omninews/internal/core"
	"omninews/internal/feed"
	"omninews/internal/features/views"
	"omninews/internal/models"
)

// Result tabs
const (
	TabItems    = "items"
	TabChannels = "channels"
	TabNews     = "news"
)

// query reads q, type and sort from the URL
func query(r *http.Request) (feed.SearchQuery, error) {
	values := r.URL.Query()
	q := feed.SearchQuery{
		Query: values.Get("q"),
		Type:  models.SearchType(values.Get("type")),
		Sort:  models.SortType(values.Get("sort")),
	}.Normalize()

	if q.Query == "" {
		return q, core.NewValidationError("Search query is required", nil)
	}
	if !q.Type.Valid() {
		return q, core.NewValidationError("Unknown search type: "+string(q.Type), nil)
	}
	if q.Sort != models.SortSimilarity && q.Sort != models.SortDate {
		return q, core.NewValidationError("Unknown sort: "+string(q.Sort), nil)
	}
	return q, nil
}

type resultsResponse struct {
	Query    string                            `json:"query"`
	Type     models.SearchType                 `json:"type"`
	Sort     models.SortType                   `json:"sort"`
	Items    views.FeedPage[views.Item]        `json:"items"`
	Channels views.FeedPage[models.RssChannel] `json:"channels"`
	News     views.FeedPage[views.News]        `json:"news"`
}

// Results loads the first page of every tab and returns all three
func (f *Feature) Results(w http.ResponseWriter, r *http.Request) {
	q, err := query(r)
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	if err := f.search.Start(r.Context(), q); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	now := f.now()
	core.WriteJSON(w, http.StatusOK, resultsResponse{
		Query:    q.Query,
		Type:     q.Type,
		Sort:     q.Sort,
		Items:    itemsPage(f.search.Items(q).Snapshot(), now),
		Channels: channelsPage(f.search.Channels(q).Snapshot()),
		News:     newsPage(f.search.News(q).Snapshot(), now),
	})
}

// More appends the next page of one tab
func (f *Feature) More(w http.ResponseWriter, r *http.Request) {
	q, err := query(r)
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	now := f.now()
	switch tab := chi.URLParam(r, "tab"); tab {
	case TabItems:
		pager := f.search.Items(q)
		if err := more(r.Context(), pager); err != nil {
			f.errs.HandleError(w, r, err)
			return
		}
		core.WriteJSON(w, http.StatusOK, itemsPage(pager.Snapshot(), now))
	case TabChannels:
		pager := f.search.Channels(q)
		if err := more(r.Context(), pager); err != nil {
			f.errs.HandleError(w, r, err)
			return
		}
		core.WriteJSON(w, http.StatusOK, channelsPage(pager.Snapshot()))
	case TabNews:
		pager := f.search.News(q)
		if err := more(r.Context(), pager); err != nil {
			f.errs.HandleError(w, r, err)
			return
		}
		core.WriteJSON(w, http.StatusOK, newsPage(pager.Snapshot(), now))
	default:
		f.errs.HandleError(w, r, core.NewNotFoundError("Unknown search tab: "+tab, nil))
	}
}

// more fetches exactly one page; on an untouched tab that is page 1
func more[T any](ctx context.Context, pager *feed.Pager[T]) error {
	_, err := pager.LoadMore(ctx)
	return err
}

func itemsPage(p feed.Page[models.RssItem], now time.Time) views.FeedPage[views.Item] {
	return views.FromPage(p, func(it models.RssItem) views.Item { return views.NewItem(it, now) })
}

func channelsPage(p feed.Page[models.RssChannel]) views.FeedPage[models.RssChannel] {
	return views.FromPage(p, func(ch models.RssChannel) models.RssChannel { return ch })
}

func newsPage(p feed.Page[models.NewsItem], now time.Time) views.FeedPage[views.News] {
	return views.FromPage(p, func(n models.NewsItem) views.News { return views.NewNews(n, now) })
}
