package api

import (
	"context"
	"net/url"
	"strconv"

	"omninews/internal/models"
)

// SearchService covers the /search endpoints
type SearchService struct {
	client *Client
}

// Items searches RSS items
func (s *SearchService) Items(ctx context.Context, query string, searchType models.SearchType, pageSize, page int) (models.SearchResult[models.RssItem], error) {
	var result models.SearchResult[models.RssItem]
	err := s.client.Get(ctx, "/search/item", searchQuery(query, searchType, pageSize, page), &result)
	return result, err
}

// Channels searches RSS channels
func (s *SearchService) Channels(ctx context.Context, query string, searchType models.SearchType, pageSize, page int) (models.SearchResult[models.RssChannel], error) {
	var result models.SearchResult[models.RssChannel]
	err := s.client.Get(ctx, "/search/channels", searchQuery(query, searchType, pageSize, page), &result)
	return result, err
}

// News searches the external news index. start is the 1-based page.
func (s *SearchService) News(ctx context.Context, query string, display int, sort models.SortType, start int) ([]models.NewsItem, error) {
	var items []models.NewsItem
	err := s.client.Get(ctx, "/search/news_api", url.Values{
		"query":   {query},
		"display": {strconv.Itoa(display)},
		"sort":    {string(sort)},
		"start":   {strconv.Itoa(start)},
	}, &items)
	return items, err
}

func searchQuery(query string, searchType models.SearchType, pageSize, page int) url.Values {
	return url.Values{
		"search_value": {query},
		"search_type":  {string(searchType)},
		"page_size":    {strconv.Itoa(pageSize)},
		"page":         {strconv.Itoa(page)},
	}
}
