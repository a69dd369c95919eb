package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"omninews/internal/models"
)

// SubscriptionService covers the /subscription endpoints
type SubscriptionService struct {
	client *Client
}

func (s *SubscriptionService) Subscribe(ctx context.Context, channelID int64) error {
	return s.client.Post(ctx, "/subscription/channel_sub", models.ChannelSubscriptionRequest{ChannelID: channelID}, nil)
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, channelID int64) error {
	return s.client.Delete(ctx, "/subscription/channel", models.ChannelSubscriptionRequest{ChannelID: channelID}, nil)
}

// Status reports whether the user is subscribed to the feed URL
func (s *SubscriptionService) Status(ctx context.Context, channelRssLink string) (bool, error) {
	var subscribed bool
	err := s.client.Get(ctx, "/subscription/status", url.Values{"channel_rss_link": {channelRssLink}}, &subscribed)
	return subscribed, err
}

// Channels returns the subscribed channels
func (s *SubscriptionService) Channels(ctx context.Context) ([]models.RssChannel, error) {
	var channels []models.RssChannel
	err := s.client.Get(ctx, "/subscription/channels", nil, &channels)
	return channels, err
}

// Items returns one page of items across the given channels
func (s *SubscriptionService) Items(ctx context.Context, channelIDs []int64, page int) ([]models.RssItem, error) {
	var items []models.RssItem
	err := s.client.Get(ctx, "/subscription/items", url.Values{
		"channel_ids": {JoinIDs(channelIDs)},
		"page":        {strconv.Itoa(page)},
	}, &items)
	return items, err
}

// Verify returns the premium subscription state
func (s *SubscriptionService) Verify(ctx context.Context) (models.SubscriptionStatus, error) {
	var status models.SubscriptionStatus
	err := s.client.Get(ctx, "/subscription/verify", nil, &status)
	return status, err
}

// Register records an in-app purchase
func (s *SubscriptionService) Register(ctx context.Context, req models.RegisterSubscriptionRequest) (bool, error) {
	var ok bool
	err := s.client.Post(ctx, "/subscription/register", req, &ok)
	return ok, err
}

// JoinIDs renders channel ids the way the items endpoint expects them
func JoinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
