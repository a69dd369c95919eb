package models

// RssChannel represents an RSS channel known to the OmniNews API.
// Identity is ChannelID.
type RssChannel struct {
	ChannelID          int64  `json:"channel_id,omitempty"`
	ChannelTitle       string `json:"channel_title,omitempty"`
	ChannelLink        string `json:"channel_link,omitempty"`
	ChannelDescription string `json:"channel_description,omitempty"`
	ChannelImageURL    string `json:"channel_image_url,omitempty"`
	ChannelLanguage    string `json:"channel_language,omitempty"`
	RssGenerator       string `json:"rss_generator,omitempty"`
	ChannelRank        int64  `json:"channel_rank,omitempty"`
	ChannelRssLink     string `json:"channel_rss_link,omitempty"`
}

// ChannelIDs returns the ids of channels in order
func ChannelIDs(channels []RssChannel) []int64 {
	ids := make([]int64, 0, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ChannelID)
	}
	return ids
}

// ContainsChannel reports whether a channel with id is in channels
func ContainsChannel(channels []RssChannel, id int64) bool {
	for _, ch := range channels {
		if ch.ChannelID == id {
			return true
		}
	}
	return false
}

// CreateChannelRequest is the body for creating a channel from a feed URL
type CreateChannelRequest struct {
	RssLink string `json:"rss_link"`
}

// ItemRankRequest bumps the rank of an item
type ItemRankRequest struct {
	RssID int64 `json:"rss_id"`
	Num   int   `json:"num"`
}
