package cache

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"sync"

	"omninews/internal/core"
	"omninews/internal/models"
)

// KeySubscribedItems is the merged subscribed-item feed
const KeySubscribedItems = "all-rss-items"

// SubscriptionAPI is the subset of the subscription endpoints used here
type SubscriptionAPI interface {
	Channels(ctx context.Context) ([]models.RssChannel, error)
	Subscribe(ctx context.Context, channelID int64) error
	Unsubscribe(ctx context.Context, channelID int64) error
}

// ChannelAPI is the subset of the rss endpoints used here
type ChannelAPI interface {
	CreateChannel(ctx context.Context, rssLink string) (int64, error)
	RecommendedChannels(ctx context.Context) ([]models.RssChannel, error)
}

// FeedProber checks that a URL serves a parseable feed
type FeedProber interface {
	Probe(ctx context.Context, feedURL string) (*FeedInfo, error)
}

// Subscriptions owns the cached subscribed-channel list. Mutations update the
// list before the server answers and restore it if the server fails.
// Mutations run one at a time; reads never wait for them and see the
// optimistic list.
type Subscriptions struct {
	cache    *Cache
	subs     SubscriptionAPI
	channels ChannelAPI
	prober   FeedProber
	mutation sync.Mutex
	logger   *core.Logger
}

// NewSubscriptions creates the subscription cache. prober may be nil to skip
// local feed checks.
func NewSubscriptions(c *Cache, subs SubscriptionAPI, channels ChannelAPI, prober FeedProber, logger *core.Logger) *Subscriptions {
	return &Subscriptions{
		cache:    c,
		subs:     subs,
		channels: channels,
		prober:   prober,
		logger:   logger.ForFeature("subscriptions"),
	}
}

// SubscribedChannels returns the subscribed channels
func (s *Subscriptions) SubscribedChannels(ctx context.Context) ([]models.RssChannel, error) {
	channels, err := Get(ctx, s.cache, KeySubscribedChannels, s.subs.Channels)
	if err != nil {
		return nil, err
	}
	return slices.Clone(channels), nil
}

// RecommendedChannels returns recommended channels the user is not yet
// subscribed to
func (s *Subscriptions) RecommendedChannels(ctx context.Context) ([]models.RssChannel, error) {
	recommended, err := Get(ctx, s.cache, KeyRecommendedChannels, s.channels.RecommendedChannels)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.SubscribedChannels(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.RssChannel, 0, len(recommended))
	for _, ch := range recommended {
		if !models.ContainsChannel(subscribed, ch.ChannelID) {
			out = append(out, ch)
		}
	}
	return out, nil
}

// Subscribe subscribes to channelID. When the channel is known from the
// recommended list it shows up in the subscribed list immediately.
func (s *Subscriptions) Subscribe(ctx context.Context, channelID int64) error {
	s.mutation.Lock()
	defer s.mutation.Unlock()

	previous, err := s.SubscribedChannels(ctx)
	if err != nil {
		return err
	}

	optimistic := false
	if recommended, ok := Peek[[]models.RssChannel](s.cache, KeyRecommendedChannels); ok {
		idx := slices.IndexFunc(recommended, func(ch models.RssChannel) bool { return ch.ChannelID == channelID })
		if idx >= 0 && !models.ContainsChannel(previous, channelID) {
			s.cache.Set(KeySubscribedChannels, append(slices.Clone(previous), recommended[idx]))
			optimistic = true
		}
	}

	if err := s.subs.Subscribe(ctx, channelID); err != nil {
		s.cache.Set(KeySubscribedChannels, previous)
		s.logger.Warn("Subscribe failed, rolled back", "channel_id", channelID, "error", err)
		return err
	}

	s.logger.Info("Subscribed to channel", "channel_id", channelID)
	if !optimistic {
		s.cache.Invalidate(KeySubscribedChannels)
	}
	s.cache.Invalidate(KeyRecommendedChannels)
	s.cache.Invalidate(KeySubscribedItems)
	return nil
}

// Unsubscribe removes channelID from the subscribed list immediately and
// restores the exact previous list if the server refuses.
func (s *Subscriptions) Unsubscribe(ctx context.Context, channelID int64) error {
	s.mutation.Lock()
	defer s.mutation.Unlock()

	previous, err := s.SubscribedChannels(ctx)
	if err != nil {
		return err
	}

	remaining := slices.DeleteFunc(slices.Clone(previous), func(ch models.RssChannel) bool {
		return ch.ChannelID == channelID
	})
	s.cache.Set(KeySubscribedChannels, remaining)

	if err := s.subs.Unsubscribe(ctx, channelID); err != nil {
		s.cache.Set(KeySubscribedChannels, previous)
		s.logger.Warn("Unsubscribe failed, rolled back", "channel_id", channelID, "error", err)
		return err
	}

	s.logger.Info("Unsubscribed from channel", "channel_id", channelID)
	s.cache.Invalidate(KeySubscribedItems)
	return nil
}

// AddByURL registers a feed URL, subscribes to it and refetches the
// subscribed list. It returns the new channel id.
func (s *Subscriptions) AddByURL(ctx context.Context, rawURL string) (int64, error) {
	feedURL, err := ValidateFeedURL(rawURL)
	if err != nil {
		return 0, err
	}

	if s.prober != nil {
		if _, err := s.prober.Probe(ctx, feedURL); err != nil {
			return 0, err
		}
	}

	s.mutation.Lock()
	defer s.mutation.Unlock()

	channelID, err := s.channels.CreateChannel(ctx, feedURL)
	if err != nil {
		return 0, err
	}
	if err := s.subs.Subscribe(ctx, channelID); err != nil {
		return 0, err
	}

	s.logger.Info("Added feed", "url", feedURL, "channel_id", channelID)
	s.cache.Invalidate(KeySubscribedChannels)
	s.cache.Invalidate(KeySubscribedItems)
	if _, err := s.SubscribedChannels(ctx); err != nil {
		s.logger.Warn("Failed to refetch subscribed channels", "error", err)
	}
	return channelID, nil
}

// ValidateFeedURL trims rawURL and checks it is an absolute http(s) URL
func ValidateFeedURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", core.NewValidationError("Feed URL is required", nil)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", core.NewValidationError("Feed URL is malformed", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", core.NewValidationError("Feed URL must start with http:// or https://", nil)
	}
	if u.Host == "" {
		return "", core.NewValidationError("Feed URL has no host", nil)
	}
	return u.String(), nil
}
