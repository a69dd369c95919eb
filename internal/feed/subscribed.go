package feed

import (
	"context"
	"slices"
	"sync"

	"omninews/internal/cache"
	"omninews/internal/models"
)

// ChannelSource returns the subscribed channels
type ChannelSource interface {
	SubscribedChannels(ctx context.Context) ([]models.RssChannel, error)
}

// ItemSource fetches a page of items across several channels
type ItemSource interface {
	Items(ctx context.Context, channelIDs []int64, page int) ([]models.RssItem, error)
}

// Invalidator notifies when a cache key is marked stale
type Invalidator interface {
	OnInvalidate(prefix string, fn func())
}

// SubscribedFeed is the merged feed over every subscribed channel. Each page
// is annotated with channel titles and sorted newest first before it is
// appended; pages are never re-sorted against each other.
type SubscribedFeed struct {
	channels ChannelSource
	items    ItemSource

	mu          sync.Mutex
	pager       *Pager[models.RssItem]
	channelsFor []int64
}

// NewSubscribedFeed creates the merged feed. When inv is non-nil the feed
// starts over whenever the aggregate key is invalidated.
func NewSubscribedFeed(channels ChannelSource, items ItemSource, inv Invalidator) *SubscribedFeed {
	f := &SubscribedFeed{
		channels: channels,
		items:    items,
	}
	f.pager = NewPager(f.page)
	if inv != nil {
		inv.OnInvalidate(cache.KeySubscribedItems, f.Reset)
	}
	return f
}

func (f *SubscribedFeed) page(ctx context.Context, page int) ([]models.RssItem, error) {
	channels, err := f.channels.SubscribedChannels(ctx)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, nil
	}

	items, err := f.items.Items(ctx, models.ChannelIDs(channels), page)
	if err != nil {
		return nil, err
	}

	AnnotateChannels(items, channels)
	SortByPublished(items)
	return items, nil
}

// sync resets the pager when the subscribed set no longer matches the one
// the loaded pages were fetched for
func (f *SubscribedFeed) sync(ctx context.Context) error {
	channels, err := f.channels.SubscribedChannels(ctx)
	if err != nil {
		return err
	}
	ids := models.ChannelIDs(channels)

	f.mu.Lock()
	changed := !slices.Equal(ids, f.channelsFor)
	f.channelsFor = ids
	f.mu.Unlock()

	if changed {
		f.pager.Reset()
	}
	return nil
}

// LoadMore appends the next page
func (f *SubscribedFeed) LoadMore(ctx context.Context) (bool, error) {
	if err := f.sync(ctx); err != nil {
		return false, err
	}
	return f.pager.LoadMore(ctx)
}

// Snapshot loads the first page if needed and returns the feed state
func (f *SubscribedFeed) Snapshot(ctx context.Context) (Page[models.RssItem], error) {
	if err := f.sync(ctx); err != nil {
		return Page[models.RssItem]{}, err
	}
	if err := f.pager.Ensure(ctx); err != nil {
		return Page[models.RssItem]{}, err
	}
	return f.pager.Snapshot(), nil
}

// Reset starts the feed over from page 1
func (f *SubscribedFeed) Reset() {
	f.pager.Reset()
}
