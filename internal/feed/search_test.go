package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omninews/internal/core"
	"omninews/internal/models"
)

type stubSearch struct {
	itemCalls, channelCalls, newsCalls atomic.Int32
	newsErr                            error
}

func (s *stubSearch) Items(_ context.Context, query string, searchType models.SearchType, pageSize, page int) (models.SearchResult[models.RssItem], error) {
	s.itemCalls.Add(1)
	if page > 1 {
		return models.SearchResult[models.RssItem]{}, nil
	}
	return models.SearchResult[models.RssItem]{Items: []models.RssItem{{RssTitle: query}}}, nil
}

func (s *stubSearch) Channels(_ context.Context, query string, searchType models.SearchType, pageSize, page int) (models.SearchResult[models.RssChannel], error) {
	s.channelCalls.Add(1)
	return models.SearchResult[models.RssChannel]{}, nil
}

func (s *stubSearch) News(_ context.Context, query string, display int, sort models.SortType, start int) ([]models.NewsItem, error) {
	s.newsCalls.Add(1)
	if s.newsErr != nil {
		return nil, s.newsErr
	}
	return []models.NewsItem{{NewsTitle: query}}, nil
}

func TestSearchStartLoadsEveryTab(t *testing.T) {
	api := &stubSearch{}
	s := NewSearch(api, 20)
	ctx := context.Background()
	q := SearchQuery{Query: "  golang "}

	require.NoError(t, s.Start(ctx, q))
	assert.Equal(t, int32(1), api.itemCalls.Load())
	assert.Equal(t, int32(1), api.channelCalls.Load())
	assert.Equal(t, int32(1), api.newsCalls.Load())

	items := s.Items(q)
	assert.Equal(t, "golang", items.Items()[0].RssTitle)
	assert.True(t, items.HasNext())

	// Channel tab ended on its empty channels array
	assert.False(t, s.Channels(q).HasNext())

	// Starting again reuses loaded first pages
	require.NoError(t, s.Start(ctx, q))
	assert.Equal(t, int32(1), api.itemCalls.Load())

	_, err := items.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, items.HasNext())
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	api := &stubSearch{}
	err := NewSearch(api, 20).Start(context.Background(), SearchQuery{Query: "   "})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, core.ErrCodeValidation, appErr.Code)
	assert.Equal(t, int32(0), api.itemCalls.Load())
}

func TestSearchStartReportsTabFailure(t *testing.T) {
	api := &stubSearch{newsErr: errors.New("news index down")}
	err := NewSearch(api, 20).Start(context.Background(), SearchQuery{Query: "go"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "news index down")
}
