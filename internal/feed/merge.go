package feed

import (
	"slices"
	"time"

	"omninews/internal/models"
)

// Dated is anything with a publish time
type Dated interface {
	PublishedAt() time.Time
}

// SortByPublished orders items newest first. Items with equal dates keep
// their relative order; undated items go last.
func SortByPublished[T Dated](items []T) {
	slices.SortStableFunc(items, func(a, b T) int {
		return b.PublishedAt().Compare(a.PublishedAt())
	})
}

// AnnotateChannels fills in ChannelTitle on each item from channels
func AnnotateChannels(items []models.RssItem, channels []models.RssChannel) {
	titles := make(map[int64]string, len(channels))
	for _, ch := range channels {
		titles[ch.ChannelID] = ch.ChannelTitle
	}
	for i := range items {
		if title, ok := titles[items[i].ChannelID]; ok {
			items[i].ChannelTitle = title
		}
	}
}
