package models

// SearchResult is one page of a search. Item searches fill Items, channel
// searches fill Channels.
type SearchResult[T any] struct {
	Items      []T          `json:"items,omitempty"`
	Channels   []RssChannel `json:"channels,omitempty"`
	TotalCount int          `json:"total_count,omitempty"`
}

// SearchType orders item and channel searches
type SearchType string

const (
	SearchAccuracy   SearchType = "Accuracy"
	SearchPopularity SearchType = "Popularity"
	SearchLatest     SearchType = "Latest"
)

// Valid reports whether t is a known search type
func (t SearchType) Valid() bool {
	switch t {
	case SearchAccuracy, SearchPopularity, SearchLatest:
		return true
	}
	return false
}

// SortType orders external news searches: by similarity or by date
type SortType string

const (
	SortSimilarity SortType = "sim"
	SortDate       SortType = "date"
)
