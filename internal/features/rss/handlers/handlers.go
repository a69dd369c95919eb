package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"omninews/internal/cache"
	"omninews/internal/core"
	"omninews/internal/feed"
	"omninews/internal/features/views"
	"omninews/internal/models"
)

// ChannelAPI is the subset of the rss endpoints the handlers call directly
type ChannelAPI interface {
	Channel(ctx context.Context, channelID int64) (models.RssChannel, error)
	ChannelItems(ctx context.Context, channelID int64, page int) ([]models.RssItem, error)
	RecommendedItems(ctx context.Context) ([]models.RssItem, error)
	Preview(ctx context.Context, rssLink string) (models.RssChannel, error)
	Exists(ctx context.Context, rssLink string) (bool, error)
	ChannelID(ctx context.Context, channelRssLink string) (int64, error)
	CreateChannels(ctx context.Context, rssLinks []string) (bool, error)
	UpdateItemRank(ctx context.Context, rssID int64, num int) error
}

// StatusAPI reports whether the user follows a feed
type StatusAPI interface {
	Status(ctx context.Context, channelRssLink string) (bool, error)
}

// Deps are the client components the RSS view reads and mutates
type Deps struct {
	Subscriptions *cache.Subscriptions
	Channels      ChannelAPI
	Status        StatusAPI
	Feed          *feed.SubscribedFeed
	Cache         *cache.Cache
}

// Handlers contains all RSS view HTTP handlers
type Handlers struct {
	logger *core.Logger
	errs   views.ErrorWriter
	deps   Deps
	cursor channelCursor
	now    func() time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(logger *core.Logger, errs views.ErrorWriter, deps Deps) *Handlers {
	return &Handlers{
		logger: logger,
		errs:   errs,
		deps:   deps,
		now:    time.Now,
	}
}

// Reset forgets the channel page position
func (h *Handlers) Reset() {
	h.cursor.reset()
}

// Channel handlers

func (h *Handlers) ListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.deps.Subscriptions.SubscribedChannels(r.Context())
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, views.NewList(channels))
}

type addChannelRequest struct {
	RssLink string `json:"rss_link"`
}

func (h *Handlers) AddChannel(w http.ResponseWriter, r *http.Request) {
	var req addChannelRequest
	if err := views.DecodeJSON(r, &req); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	channelID, err := h.deps.Subscriptions.AddByURL(r.Context(), req.RssLink)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusCreated, map[string]int64{"channel_id": channelID})
}

type importRequest struct {
	RssLinks []string `json:"rss_links"`
}

// ImportChannels registers several feed URLs at once without subscribing
func (h *Handlers) ImportChannels(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := views.DecodeJSON(r, &req); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	if len(req.RssLinks) == 0 {
		h.errs.HandleError(w, r, core.NewValidationError("rss_links is required", nil))
		return
	}

	links := make([]string, 0, len(req.RssLinks))
	for _, raw := range req.RssLinks {
		link, err := cache.ValidateFeedURL(raw)
		if err != nil {
			h.errs.HandleError(w, r, err)
			return
		}
		links = append(links, link)
	}

	ok, err := h.deps.Channels.CreateChannels(r.Context(), links)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	if ok {
		h.deps.Cache.Invalidate(cache.KeyRecommendedChannels)
	}
	h.logger.Info("Imported channels", "count", len(links), "accepted", ok)
	core.WriteJSON(w, http.StatusOK, map[string]bool{"accepted": ok})
}

func (h *Handlers) GetChannel(w http.ResponseWriter, r *http.Request) {
	channelID, err := views.IDParam(r, "id")
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	channel, err := h.deps.Channels.Channel(r.Context(), channelID)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, channel)
}

type channelItemsResponse struct {
	ChannelID int64        `json:"channel_id"`
	Page      int          `json:"page"`
	Items     []views.Item `json:"items"`
	Empty     bool         `json:"empty"`
}

// ChannelItems serves one numbered page of a channel. Without a page
// parameter the last page viewed for the same channel is served; switching
// channels starts again at page 1.
func (h *Handlers) ChannelItems(w http.ResponseWriter, r *http.Request) {
	channelID, err := views.IDParam(r, "id")
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	var page int
	if r.URL.Query().Has("page") {
		if page, err = views.PageQuery(r); err != nil {
			h.errs.HandleError(w, r, err)
			return
		}
		h.cursor.set(channelID, page)
	} else {
		page = h.cursor.pageFor(channelID)
	}

	items, err := h.deps.Channels.ChannelItems(r.Context(), channelID, page)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	converted := views.Items(items, h.now())
	core.WriteJSON(w, http.StatusOK, channelItemsResponse{
		ChannelID: channelID,
		Page:      page,
		Items:     converted,
		Empty:     len(converted) == 0,
	})
}

func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	link, err := cache.ValidateFeedURL(r.URL.Query().Get("url"))
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	channel, err := h.deps.Channels.Preview(r.Context(), link)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, channel)
}

type statusResponse struct {
	Exists     bool  `json:"exists"`
	ChannelID  int64 `json:"channel_id,omitempty"`
	Subscribed bool  `json:"subscribed"`
}

func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	link, err := cache.ValidateFeedURL(r.URL.Query().Get("url"))
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	exists, err := h.deps.Channels.Exists(r.Context(), link)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	resp := statusResponse{Exists: exists}
	if exists {
		if resp.ChannelID, err = h.deps.Channels.ChannelID(r.Context(), link); err != nil {
			h.errs.HandleError(w, r, err)
			return
		}
		if resp.Subscribed, err = h.deps.Status.Status(r.Context(), link); err != nil {
			h.errs.HandleError(w, r, err)
			return
		}
	}
	core.WriteJSON(w, http.StatusOK, resp)
}

// Subscription handlers

func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.ChannelSubscriptionRequest
	if err := views.DecodeJSON(r, &req); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	if req.ChannelID <= 0 {
		h.errs.HandleError(w, r, core.NewValidationError("channel_id is required", nil))
		return
	}

	if err := h.deps.Subscriptions.Subscribe(r.Context(), req.ChannelID); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	h.writeChannels(w, r)
}

func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	channelID, err := views.IDParam(r, "id")
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	if err := h.deps.Subscriptions.Unsubscribe(r.Context(), channelID); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	h.writeChannels(w, r)
}

func (h *Handlers) writeChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.deps.Subscriptions.SubscribedChannels(r.Context())
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, views.NewList(channels))
}

// Merged feed handlers

func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	page, err := h.deps.Feed.Snapshot(r.Context())
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	h.writeFeed(w, page)
}

// MoreFeed is the load-more signal of the merged feed. A signal that arrives
// while a page is loading, or after the last page, changes nothing. The
// first signal on an empty feed loads page 1.
func (h *Handlers) MoreFeed(w http.ResponseWriter, r *http.Request) {
	if _, err := h.deps.Feed.LoadMore(r.Context()); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	page, err := h.deps.Feed.Snapshot(r.Context())
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	h.writeFeed(w, page)
}

func (h *Handlers) writeFeed(w http.ResponseWriter, page feed.Page[models.RssItem]) {
	now := h.now()
	core.WriteJSON(w, http.StatusOK, views.FromPage(page, func(it models.RssItem) views.Item {
		return views.NewItem(it, now)
	}))
}

// Recommendation handlers

func (h *Handlers) RecommendedChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.deps.Subscriptions.RecommendedChannels(r.Context())
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, views.NewList(channels))
}

func (h *Handlers) RecommendedItems(w http.ResponseWriter, r *http.Request) {
	items, err := cache.Get(r.Context(), h.deps.Cache, cache.KeyRecommendedItems, h.deps.Channels.RecommendedItems)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, views.NewList(views.Items(items, h.now())))
}

type rankRequest struct {
	Num int `json:"num"`
}

// RankItem records interest in an item, typically when it is opened
func (h *Handlers) RankItem(w http.ResponseWriter, r *http.Request) {
	rssID, err := views.IDParam(r, "id")
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	req := rankRequest{Num: 1}
	if r.ContentLength != 0 && strings.Contains(r.Header.Get("Content-Type"), "json") {
		if err := views.DecodeJSON(r, &req); err != nil {
			h.errs.HandleError(w, r, err)
			return
		}
	}

	if err := h.deps.Channels.UpdateItemRank(r.Context(), rssID, req.Num); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// channelCursor remembers the page last viewed and the channel it belongs to
type channelCursor struct {
	mu        sync.Mutex
	channelID int64
	page      int
}

func (c *channelCursor) set(channelID int64, page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channelID, c.page = channelID, page
}

func (c *channelCursor) pageFor(channelID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channelID != channelID || c.page < 1 {
		c.channelID, c.page = channelID, 1
	}
	return c.page
}

func (c *channelCursor) reset() {
	c.set(0, 0)
}
