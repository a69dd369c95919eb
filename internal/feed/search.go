package feed

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"omninews/internal/core"
	"omninews/internal/models"
)

// SearchAPI is the subset of the search endpoints the search feeds use
type SearchAPI interface {
	Items(ctx context.Context, query string, searchType models.SearchType, pageSize, page int) (models.SearchResult[models.RssItem], error)
	Channels(ctx context.Context, query string, searchType models.SearchType, pageSize, page int) (models.SearchResult[models.RssChannel], error)
	News(ctx context.Context, query string, display int, sort models.SortType, start int) ([]models.NewsItem, error)
}

// SearchQuery identifies one search; each tab keeps its own feed per query
type SearchQuery struct {
	Query string
	Type  models.SearchType
	Sort  models.SortType
}

// Normalize trims the query and fills in the default orderings
func (q SearchQuery) Normalize() SearchQuery {
	q.Query = strings.TrimSpace(q.Query)
	if q.Type == "" {
		q.Type = models.SearchAccuracy
	}
	if q.Sort == "" {
		q.Sort = models.SortSimilarity
	}
	return q
}

// Search holds the item, channel and news result feeds
type Search struct {
	api      SearchAPI
	pageSize int

	items    *Set[SearchQuery, models.RssItem]
	channels *Set[SearchQuery, models.RssChannel]
	news     *Set[SearchQuery, models.NewsItem]
}

// NewSearch creates the search feeds, requesting pageSize results per page
func NewSearch(api SearchAPI, pageSize int) *Search {
	s := &Search{api: api, pageSize: pageSize}

	s.items = NewSet(func(q SearchQuery) PageFunc[models.RssItem] {
		return func(ctx context.Context, page int) ([]models.RssItem, error) {
			res, err := s.api.Items(ctx, q.Query, q.Type, s.pageSize, page)
			return res.Items, err
		}
	})
	s.channels = NewSet(func(q SearchQuery) PageFunc[models.RssChannel] {
		return func(ctx context.Context, page int) ([]models.RssChannel, error) {
			res, err := s.api.Channels(ctx, q.Query, q.Type, s.pageSize, page)
			return res.Channels, err
		}
	})
	s.news = NewSet(func(q SearchQuery) PageFunc[models.NewsItem] {
		return func(ctx context.Context, page int) ([]models.NewsItem, error) {
			return s.api.News(ctx, q.Query, s.pageSize, q.Sort, page)
		}
	})
	return s
}

// Items returns the RSS item results for q
func (s *Search) Items(q SearchQuery) *Pager[models.RssItem] {
	return s.items.Get(q.Normalize())
}

// Channels returns the channel results for q
func (s *Search) Channels(q SearchQuery) *Pager[models.RssChannel] {
	return s.channels.Get(q.Normalize())
}

// News returns the external news results for q
func (s *Search) News(q SearchQuery) *Pager[models.NewsItem] {
	return s.news.Get(q.Normalize())
}

// Start loads the first page of every tab for q concurrently. An empty
// query is rejected before anything is sent.
func (s *Search) Start(ctx context.Context, q SearchQuery) error {
	q = q.Normalize()
	if q.Query == "" {
		return core.NewValidationError("Search query is required", nil)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Items(q).Ensure(ctx) })
	g.Go(func() error { return s.Channels(q).Ensure(ctx) })
	g.Go(func() error { return s.News(q).Ensure(ctx) })
	return g.Wait()
}
