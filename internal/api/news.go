package api

import (
	"context"
	"net/url"
	"strconv"

	"omninews/internal/models"
)

// NewsService covers the /news endpoint
type NewsService struct {
	client *Client
}

// ByCategory returns one page of news in category. A page of 0 omits the
// page parameter and the server returns its first page.
func (s *NewsService) ByCategory(ctx context.Context, category models.NewsCategory, page int) ([]models.NewsItem, error) {
	query := url.Values{"category": {string(category)}}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}

	var items []models.NewsItem
	err := s.client.Get(ctx, "/news", query, &items)
	return items, err
}
