package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omninews/internal/cache"
	"omninews/internal/core"
	"omninews/internal/feed"
	"omninews/internal/models"
)

type plainErrors struct{}

func (plainErrors) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	core.HandleError(w, err)
}

// fakeAPI stands in for the rss and subscription endpoints
type fakeAPI struct {
	mu           sync.Mutex
	subscribed   []models.RssChannel
	recommended  []models.RssChannel
	itemPages    int
	itemCalls    []int
	channelPages []int
	failUnsub    bool
	ranks        map[int64]int
	created      []string
}

func (f *fakeAPI) Channels(context.Context) ([]models.RssChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RssChannel(nil), f.subscribed...), nil
}

func (f *fakeAPI) Subscribe(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.recommended {
		if ch.ChannelID == id {
			f.subscribed = append(f.subscribed, ch)
			return nil
		}
	}
	f.subscribed = append(f.subscribed, models.RssChannel{ChannelID: id})
	return nil
}

func (f *fakeAPI) Unsubscribe(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUnsub {
		return errors.New("refused")
	}
	out := f.subscribed[:0]
	for _, ch := range f.subscribed {
		if ch.ChannelID != id {
			out = append(out, ch)
		}
	}
	f.subscribed = out
	return nil
}

func (f *fakeAPI) Items(_ context.Context, ids []int64, page int) ([]models.RssItem, error) {
	f.mu.Lock()
	f.itemCalls = append(f.itemCalls, page)
	f.mu.Unlock()
	if page > f.itemPages {
		return nil, nil
	}
	items := make([]models.RssItem, 0, len(ids))
	for i, id := range ids {
		items = append(items, models.RssItem{
			RssID:      int64(page*10 + i),
			ChannelID:  id,
			RssPubDate: time.Date(2024, 1, page, i, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
	}
	return items, nil
}

func (f *fakeAPI) CreateChannel(_ context.Context, link string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, link)
	return 99, nil
}

func (f *fakeAPI) RecommendedChannels(context.Context) ([]models.RssChannel, error) {
	return f.recommended, nil
}

func (f *fakeAPI) Channel(_ context.Context, id int64) (models.RssChannel, error) {
	return models.RssChannel{ChannelID: id, ChannelTitle: "channel"}, nil
}

func (f *fakeAPI) ChannelItems(_ context.Context, id int64, page int) ([]models.RssItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelPages = append(f.channelPages, page)
	return []models.RssItem{{RssID: int64(page), ChannelID: id, RssDescription: "<b>hi</b>"}}, nil
}

func (f *fakeAPI) RecommendedItems(context.Context) ([]models.RssItem, error) {
	return []models.RssItem{{RssID: 1}}, nil
}

func (f *fakeAPI) Preview(_ context.Context, link string) (models.RssChannel, error) {
	return models.RssChannel{ChannelRssLink: link}, nil
}

func (f *fakeAPI) Exists(_ context.Context, link string) (bool, error) {
	return strings.Contains(link, "known"), nil
}

func (f *fakeAPI) ChannelID(context.Context, string) (int64, error) {
	return 42, nil
}

func (f *fakeAPI) CreateChannels(_ context.Context, links []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, links...)
	return true, nil
}

func (f *fakeAPI) Status(context.Context, string) (bool, error) {
	return true, nil
}

func (f *fakeAPI) UpdateItemRank(_ context.Context, id int64, num int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ranks == nil {
		f.ranks = map[int64]int{}
	}
	f.ranks[id] += num
	return nil
}

func newRouter(api *fakeAPI) chi.Router {
	logger := core.NopLogger()
	queries := cache.New(logger)
	subs := cache.NewSubscriptions(queries, api, api, nil, logger)

	h := NewHandlers(logger, plainErrors{}, Deps{
		Subscriptions: subs,
		Channels:      api,
		Status:        api,
		Feed:          feed.NewSubscribedFeed(subs, api, queries),
		Cache:         queries,
	})

	r := chi.NewRouter()
	r.Get("/rss/channels", h.ListChannels)
	r.Post("/rss/channels", h.AddChannel)
	r.Post("/rss/channels/import", h.ImportChannels)
	r.Get("/rss/channels/{id}", h.GetChannel)
	r.Get("/rss/channels/{id}/items", h.ChannelItems)
	r.Get("/rss/status", h.Status)
	r.Post("/rss/subscriptions", h.Subscribe)
	r.Delete("/rss/subscriptions/{id}", h.Unsubscribe)
	r.Get("/rss/feed", h.Feed)
	r.Post("/rss/feed/more", h.MoreFeed)
	r.Get("/rss/recommended", h.RecommendedChannels)
	r.Put("/rss/items/{id}/rank", h.RankItem)
	return r
}

func send(r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(rec, req)
	return rec
}

func channelIDs(t *testing.T, rec *httptest.ResponseRecorder) []int64 {
	t.Helper()
	var body struct {
		Data struct {
			Items []models.RssChannel `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return models.ChannelIDs(body.Data.Items)
}

func TestUnsubscribeRollsBackOnFailure(t *testing.T) {
	api := &fakeAPI{
		subscribed: []models.RssChannel{{ChannelID: 1}, {ChannelID: 2}, {ChannelID: 3}},
		failUnsub:  true,
	}
	r := newRouter(api)
	require.Equal(t, []int64{1, 2, 3}, channelIDs(t, send(r, http.MethodGet, "/rss/channels", "")))

	rec := send(r, http.MethodDelete, "/rss/subscriptions/2", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []int64{1, 2, 3}, channelIDs(t, send(r, http.MethodGet, "/rss/channels", "")))

	api.failUnsub = false
	rec = send(r, http.MethodDelete, "/rss/subscriptions/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 3}, channelIDs(t, rec))
}

func TestRecommendedExcludesSubscribed(t *testing.T) {
	api := &fakeAPI{
		subscribed:  []models.RssChannel{{ChannelID: 1}},
		recommended: []models.RssChannel{{ChannelID: 1}, {ChannelID: 4}},
	}
	r := newRouter(api)

	assert.Equal(t, []int64{4}, channelIDs(t, send(r, http.MethodGet, "/rss/recommended", "")))

	rec := send(r, http.MethodPost, "/rss/subscriptions", `{"channel_id":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 4}, channelIDs(t, rec))
	assert.Empty(t, channelIDs(t, send(r, http.MethodGet, "/rss/recommended", "")))
}

func TestChannelItemsPageResetsOnChannelChange(t *testing.T) {
	api := &fakeAPI{}
	r := newRouter(api)

	send(r, http.MethodGet, "/rss/channels/5/items?page=3", "")
	send(r, http.MethodGet, "/rss/channels/5/items", "")
	rec := send(r, http.MethodGet, "/rss/channels/6/items", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []int{3, 3, 1}, api.channelPages)

	var body struct {
		Data channelItemsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.Page)
	assert.Equal(t, "hi", body.Data.Items[0].Summary)
}

func TestMergedFeedGrows(t *testing.T) {
	api := &fakeAPI{
		subscribed: []models.RssChannel{{ChannelID: 1, ChannelTitle: "One"}, {ChannelID: 2, ChannelTitle: "Two"}},
		itemPages:  2,
	}
	r := newRouter(api)

	var body struct {
		Data struct {
			Items []struct {
				RssID        int64  `json:"rss_id"`
				ChannelTitle string `json:"channel_title"`
			} `json:"items"`
			HasNext bool `json:"has_next"`
		} `json:"data"`
	}

	rec := send(r, http.MethodGet, "/rss/feed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 2)
	assert.Equal(t, int64(11), body.Data.Items[0].RssID, "newest first")

	for range 3 {
		rec = send(r, http.MethodPost, "/rss/feed/more", "")
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Items, 4)
	assert.False(t, body.Data.HasNext)
}

func TestFirstMoreSignalLoadsOnlyFirstPage(t *testing.T) {
	api := &fakeAPI{
		subscribed: []models.RssChannel{{ChannelID: 1}},
		itemPages:  3,
	}
	r := newRouter(api)

	rec := send(r, http.MethodPost, "/rss/feed/more", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1}, api.itemCalls)

	send(r, http.MethodPost, "/rss/feed/more", "")
	assert.Equal(t, []int{1, 2}, api.itemCalls)
}

func TestAddChannelValidatesURL(t *testing.T) {
	api := &fakeAPI{}
	r := newRouter(api)

	rec := send(r, http.MethodPost, "/rss/channels", `{"rss_link":"ftp://example.com/feed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, api.created)

	rec = send(r, http.MethodPost, "/rss/channels", `{"rss_link":" https://example.com/feed "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"https://example.com/feed"}, api.created)
	assert.Equal(t, []int64{99}, channelIDs(t, send(r, http.MethodGet, "/rss/channels", "")))
}

func TestStatusAndRank(t *testing.T) {
	api := &fakeAPI{}
	r := newRouter(api)

	rec := send(r, http.MethodGet, "/rss/status?url=https://known.example.com/rss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subscribed":true`)
	assert.Contains(t, rec.Body.String(), `"channel_id":42`)

	rec = send(r, http.MethodGet, "/rss/status?url=https://new.example.com/rss", "")
	assert.Contains(t, rec.Body.String(), `"exists":false`)

	assert.Equal(t, http.StatusNoContent, send(r, http.MethodPut, "/rss/items/7/rank", "").Code)
	assert.Equal(t, http.StatusNoContent, send(r, http.MethodPut, "/rss/items/7/rank", `{"num":2}`).Code)
	assert.Equal(t, 3, api.ranks[7])
}

func TestImportChannels(t *testing.T) {
	api := &fakeAPI{}
	r := newRouter(api)

	rec := send(r, http.MethodPost, "/rss/channels/import", `{"rss_links":["https://a.example.com/rss","nope"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, api.created)

	rec = send(r, http.MethodPost, "/rss/channels/import", `{"rss_links":["https://a.example.com/rss"," https://b.example.com/rss"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"https://a.example.com/rss", "https://b.example.com/rss"}, api.created)
}
