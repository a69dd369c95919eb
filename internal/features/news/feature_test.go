package news

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omninews/internal/core"
	"omninews/internal/models"
)

type plainErrors struct{}

func (plainErrors) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	core.HandleError(w, err)
}

// stubNews serves pages of the given sizes per category, then empty pages
type stubNews struct {
	mu    sync.Mutex
	sizes map[models.NewsCategory][]int
	calls []string
	fail  error
}

func (s *stubNews) ByCategory(ctx context.Context, category models.NewsCategory, page int) ([]models.NewsItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, string(category))
	if s.fail != nil {
		return nil, s.fail
	}

	sizes := s.sizes[category]
	if page > len(sizes) {
		return nil, nil
	}
	items := make([]models.NewsItem, sizes[page-1])
	for i := range items {
		items[i] = models.NewsItem{NewsID: int64(page*100 + i), NewsTitle: string(category), NewsDescription: "<p>body</p>"}
	}
	return items, nil
}

type newsBody struct {
	Success bool `json:"success"`
	Data    struct {
		Category string `json:"category"`
		Items    []struct {
			NewsID  int64  `json:"news_id"`
			Summary string `json:"summary"`
		} `json:"items"`
		HasNext bool `json:"has_next"`
		Empty   bool `json:"empty"`
	} `json:"data"`
}

func newRouter(f *Feature) chi.Router {
	r := chi.NewRouter()
	for _, route := range f.Routes() {
		r.Method(route.Method, route.Path, route.Handler)
	}
	return r
}

func call(t *testing.T, r chi.Router, method, target string) (*httptest.ResponseRecorder, newsBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body newsBody
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestCategoryFeedsAreIndependent(t *testing.T) {
	api := &stubNews{sizes: map[models.NewsCategory][]int{
		models.CategoryPolitics: {3, 2},
		models.CategoryWorld:    {1},
	}}
	r := newRouter(NewFeature(core.NopLogger(), api, plainErrors{}))

	rec, body := call(t, r, http.MethodGet, "/news")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(models.CategoryPolitics), body.Data.Category)
	assert.Len(t, body.Data.Items, 3)
	assert.Equal(t, "body", body.Data.Items[0].Summary)

	_, body = call(t, r, http.MethodPost, "/news/more?category="+url.QueryEscape(string(models.CategoryPolitics)))
	assert.Len(t, body.Data.Items, 5)
	assert.True(t, body.Data.HasNext)

	_, body = call(t, r, http.MethodGet, "/news?category="+url.QueryEscape(string(models.CategoryWorld)))
	assert.Len(t, body.Data.Items, 1)

	// The politics feed kept its pages.
	_, body = call(t, r, http.MethodGet, "/news?category="+url.QueryEscape(string(models.CategoryPolitics)))
	assert.Len(t, body.Data.Items, 5)
}

func TestFeedStopsAfterEmptyPage(t *testing.T) {
	api := &stubNews{sizes: map[models.NewsCategory][]int{models.CategoryScience: {2}}}
	r := newRouter(NewFeature(core.NopLogger(), api, plainErrors{}))
	target := "/news/more?category=" + url.QueryEscape(string(models.CategoryScience))

	// The first signal on an untouched category fetches page 1 only.
	_, body := call(t, r, http.MethodPost, target)
	assert.Len(t, body.Data.Items, 2)
	assert.True(t, body.Data.HasNext)
	assert.Len(t, api.calls, 1)

	_, body = call(t, r, http.MethodPost, target)
	assert.Len(t, body.Data.Items, 2)
	assert.False(t, body.Data.HasNext)

	_, body = call(t, r, http.MethodPost, target)
	assert.Len(t, body.Data.Items, 2)
	assert.Len(t, api.calls, 2, "no fetch after the empty page")
}

func TestRefreshReloadsCategory(t *testing.T) {
	api := &stubNews{sizes: map[models.NewsCategory][]int{models.CategoryEconomy: {1, 1}}}
	r := newRouter(NewFeature(core.NopLogger(), api, plainErrors{}))
	target := "?category=" + url.QueryEscape(string(models.CategoryEconomy))

	call(t, r, http.MethodPost, "/news/more"+target)
	_, body := call(t, r, http.MethodPost, "/news/refresh"+target)
	assert.Len(t, body.Data.Items, 1)
}

func TestUnknownCategoryIsRejected(t *testing.T) {
	api := &stubNews{}
	r := newRouter(NewFeature(core.NopLogger(), api, plainErrors{}))

	rec, _ := call(t, r, http.MethodGet, "/news?category=sports")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, api.calls)
}

func TestUpstreamFailureIsReported(t *testing.T) {
	api := &stubNews{fail: errors.New("boom")}
	r := newRouter(NewFeature(core.NopLogger(), api, plainErrors{}))

	rec, _ := call(t, r, http.MethodGet, "/news")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCategoriesInDisplayOrder(t *testing.T) {
	r := newRouter(NewFeature(core.NopLogger(), &stubNews{}, plainErrors{}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news/categories", nil))

	var body struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"정치", "경제", "사회", "생활/문화", "세계", "IT/과학"}, body.Data)
}
