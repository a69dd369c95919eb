package models

import (
	"time"

	"github.com/araddon/dateparse"
)

// RssItem represents one entry of an RSS channel
type RssItem struct {
	RssID          int64  `json:"rss_id,omitempty"`
	ChannelID      int64  `json:"channel_id,omitempty"`
	RssTitle       string `json:"rss_title,omitempty"`
	RssDescription string `json:"rss_description,omitempty"`
	RssLink        string `json:"rss_link,omitempty"`
	RssAuthor      string `json:"rss_author,omitempty"`
	RssPubDate     string `json:"rss_pub_date,omitempty"`
	RssRank        int64  `json:"rss_rank,omitempty"`
	RssImageLink   string `json:"rss_image_link,omitempty"`

	// ChannelTitle is filled in client-side when items from several
	// channels are merged into one feed.
	ChannelTitle string `json:"channel_title,omitempty"`
}

// PublishedAt parses RssPubDate. Missing or unparsable dates yield the zero
// time, which sorts after every real date.
func (i RssItem) PublishedAt() time.Time {
	return ParseDate(i.RssPubDate)
}

// ParseDate parses the free-form dates the API returns
func ParseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
