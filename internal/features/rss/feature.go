package rss

import (
	"context"
	"net/http"

	"omninews/internal/app"
	"omninews/internal/core"
	"omninews/internal/features/rss/handlers"
	"omninews/internal/features/views"
)

// Feature is the RSS view: subscribed channels, their items, the merged
// subscribed feed and channel management
type Feature struct {
	*core.BaseFeature
	config   *Config
	handlers *handlers.Handlers
}

// NewFeature creates the RSS view on the assembled client
func NewFeature(logger *core.Logger, a *app.App, errs views.ErrorWriter, config *Config) *Feature {
	return &Feature{
		BaseFeature: core.NewBaseFeature("rss", "Subscribed channels and feeds", config.Enabled, logger),
		config:      config,
		handlers: handlers.NewHandlers(logger.ForFeature("rss"), errs, handlers.Deps{
			Subscriptions: a.Subscriptions,
			Channels:      a.API.RSS,
			Status:        a.API.Subscriptions,
			Feed:          a.Feed,
			Cache:         a.Cache,
		}),
	}
}

// Init validates the configuration
func (f *Feature) Init(ctx context.Context) error {
	if err := f.BaseFeature.Init(ctx); err != nil {
		return err
	}
	if err := f.config.Validate(); err != nil {
		return core.NewConfigurationError("invalid rss configuration", err)
	}

	f.Logger().Info("RSS view initialized", "page_size", f.config.PageSize, "probe_feeds", f.config.ProbeFeeds)
	return nil
}

// Routes returns the HTTP routes for the RSS view
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		// Channels
		{Method: http.MethodGet, Path: "/rss/channels", Handler: f.handlers.ListChannels},
		{Method: http.MethodPost, Path: "/rss/channels", Handler: f.handlers.AddChannel},
		{Method: http.MethodPost, Path: "/rss/channels/import", Handler: f.handlers.ImportChannels},
		{Method: http.MethodGet, Path: "/rss/channels/{id}", Handler: f.handlers.GetChannel},
		{Method: http.MethodGet, Path: "/rss/channels/{id}/items", Handler: f.handlers.ChannelItems},
		{Method: http.MethodGet, Path: "/rss/preview", Handler: f.handlers.Preview},
		{Method: http.MethodGet, Path: "/rss/status", Handler: f.handlers.Status},

		// Subscriptions
		{Method: http.MethodPost, Path: "/rss/subscriptions", Handler: f.handlers.Subscribe},
		{Method: http.MethodDelete, Path: "/rss/subscriptions/{id}", Handler: f.handlers.Unsubscribe},

		// Merged feed
		{Method: http.MethodGet, Path: "/rss/feed", Handler: f.handlers.Feed},
		{Method: http.MethodPost, Path: "/rss/feed/more", Handler: f.handlers.MoreFeed},

		// Recommendations and ranking
		{Method: http.MethodGet, Path: "/rss/recommended", Handler: f.handlers.RecommendedChannels},
		{Method: http.MethodGet, Path: "/rss/recommended/items", Handler: f.handlers.RecommendedItems},
		{Method: http.MethodPut, Path: "/rss/items/{id}/rank", Handler: f.handlers.RankItem},
	}
}

// Shutdown gracefully shuts down the RSS view
func (f *Feature) Shutdown(ctx context.Context) error {
	f.handlers.Reset()
	return f.BaseFeature.Shutdown(ctx)
}
