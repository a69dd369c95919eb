// Package app assembles the client: storage, session, API client, caches
// and the services built on them. The shell server and the CLI share it.
package app

import (
	"context"
	"fmt"

	"omninews/internal/api"
	"omninews/internal/auth"
	"omninews/internal/cache"
	"omninews/internal/core"
	"omninews/internal/feed"
	"omninews/internal/session"
	"omninews/internal/storage"
)

// App holds every long-lived component of the client
type App struct {
	Config        *core.Config
	Logger        *core.Logger
	DB            *core.Database
	Storage       storage.Storage
	Session       *session.Store
	Client        *api.Client
	API           *api.Services
	Cache         *cache.Cache
	Subscriptions *cache.Subscriptions
	Feed          *feed.SubscribedFeed
	Search        *feed.Search
	Auth          *auth.Service
}

// New opens local storage at config.Storage.Path and builds the client on it
func New(ctx context.Context, config *core.Config, logger *core.Logger) (*App, error) {
	db, err := core.OpenDatabase(config.Storage.Path, logger)
	if err != nil {
		return nil, err
	}

	st, err := storage.NewSQLiteStore(ctx, db, config.Storage.Secret, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	a, err := NewWithStorage(ctx, config, st, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.DB = db
	return a, nil
}

// NewWithStorage builds the client on an existing store
func NewWithStorage(ctx context.Context, config *core.Config, st storage.Storage, logger *core.Logger) (*App, error) {
	sess, err := session.New(ctx, st, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if err := sess.Reconcile(ctx); err != nil {
		return nil, fmt.Errorf("failed to reconcile session: %w", err)
	}

	queries := cache.New(logger)
	client := api.NewClient(sess, api.Options{
		BaseURL:   config.API.BaseURL,
		Timeout:   config.API.Timeout,
		UserAgent: config.API.UserAgent,
		OnSessionExpired: func(ctx context.Context) {
			queries.Clear()
			logger.WithContext(ctx).Warn("Session expired, sign in again")
		},
	}, logger)
	services := api.NewServices(client)

	var prober cache.FeedProber
	if config.Feeds.ProbeFeeds {
		prober = cache.NewGofeedProber(config.API.Timeout, config.API.UserAgent, logger)
	}
	subs := cache.NewSubscriptions(queries, services.Subscriptions, services.RSS, prober, logger)

	return &App{
		Config:        config,
		Logger:        logger,
		Storage:       st,
		Session:       sess,
		Client:        client,
		API:           services,
		Cache:         queries,
		Subscriptions: subs,
		Feed:          feed.NewSubscribedFeed(subs, services.Subscriptions, queries),
		Search:        feed.NewSearch(services.Search, config.Feeds.PageSize),
		Auth:          auth.NewService(client, services.Auth, sess, queries, config, logger),
	}, nil
}

// Close releases the database, if one was opened
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
