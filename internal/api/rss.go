package api

import (
	"context"
	"net/url"
	"strconv"

	"omninews/internal/models"
)

// RSSService covers the /rss endpoints
type RSSService struct {
	client *Client
}

// CreateChannel registers a feed URL and returns the channel id
func (s *RSSService) CreateChannel(ctx context.Context, rssLink string) (int64, error) {
	var id int64
	err := s.client.Post(ctx, "/rss/channel", models.CreateChannelRequest{RssLink: rssLink}, &id)
	return id, err
}

// CreateChannels registers several feed URLs at once
func (s *RSSService) CreateChannels(ctx context.Context, rssLinks []string) (bool, error) {
	body := make([]models.CreateChannelRequest, 0, len(rssLinks))
	for _, link := range rssLinks {
		body = append(body, models.CreateChannelRequest{RssLink: link})
	}
	var ok bool
	err := s.client.Post(ctx, "/rss/all", body, &ok)
	return ok, err
}

// ChannelID looks a channel up by its feed URL
func (s *RSSService) ChannelID(ctx context.Context, channelRssLink string) (int64, error) {
	var id int64
	err := s.client.Get(ctx, "/rss/id", url.Values{"channel_rss_link": {channelRssLink}}, &id)
	return id, err
}

func (s *RSSService) Channel(ctx context.Context, channelID int64) (models.RssChannel, error) {
	var ch models.RssChannel
	err := s.client.Get(ctx, "/rss/channel", url.Values{"channel_id": {strconv.FormatInt(channelID, 10)}}, &ch)
	return ch, err
}

// ChannelItems returns one page of a channel's items; pages start at 1
func (s *RSSService) ChannelItems(ctx context.Context, channelID int64, page int) ([]models.RssItem, error) {
	var items []models.RssItem
	err := s.client.Get(ctx, "/rss/items", url.Values{
		"channel_id": {strconv.FormatInt(channelID, 10)},
		"page":       {strconv.Itoa(page)},
	}, &items)
	return items, err
}

func (s *RSSService) RecommendedChannels(ctx context.Context) ([]models.RssChannel, error) {
	var channels []models.RssChannel
	err := s.client.Get(ctx, "/rss/recommend/channel", nil, &channels)
	return channels, err
}

func (s *RSSService) RecommendedItems(ctx context.Context) ([]models.RssItem, error) {
	var items []models.RssItem
	err := s.client.Get(ctx, "/rss/recommend/item", nil, &items)
	return items, err
}

// Preview asks the server to parse a feed without registering it
func (s *RSSService) Preview(ctx context.Context, rssLink string) (models.RssChannel, error) {
	var ch models.RssChannel
	err := s.client.Get(ctx, "/rss/preview", url.Values{"rss_link": {rssLink}}, &ch)
	return ch, err
}

// Exists reports whether the feed URL is already registered
func (s *RSSService) Exists(ctx context.Context, rssLink string) (bool, error) {
	var ok bool
	err := s.client.Get(ctx, "/rss/exist", url.Values{"rss_link": {rssLink}}, &ok)
	return ok, err
}

// UpdateItemRank bumps an item's rank by num
func (s *RSSService) UpdateItemRank(ctx context.Context, rssID int64, num int) error {
	return s.client.Put(ctx, "/rss/item/rank", models.ItemRankRequest{RssID: rssID, Num: num}, nil)
}
