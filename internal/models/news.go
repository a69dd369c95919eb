package models

import "time"

// NewsItem is an article from the external news index
type NewsItem struct {
	NewsID          int64  `json:"news_id,omitempty"`
	NewsTitle       string `json:"news_title,omitempty"`
	NewsDescription string `json:"news_description,omitempty"`
	NewsSummary     string `json:"news_summary,omitempty"`
	NewsLink        string `json:"news_link,omitempty"`
	NewsSource      string `json:"news_source,omitempty"`
	NewsPubDate     string `json:"news_pub_date,omitempty"`
	NewsImageLink   string `json:"news_image_link,omitempty"`
	NewsCategory    string `json:"news_category,omitempty"`
}

// PublishedAt parses NewsPubDate
func (n NewsItem) PublishedAt() time.Time {
	return ParseDate(n.NewsPubDate)
}

// NewsCategory is one of the fixed sections of the news index
type NewsCategory string

const (
	CategoryPolitics NewsCategory = "정치"
	CategoryEconomy  NewsCategory = "경제"
	CategorySociety  NewsCategory = "사회"
	CategoryCulture  NewsCategory = "생활/문화"
	CategoryWorld    NewsCategory = "세계"
	CategoryScience  NewsCategory = "IT/과학"
)

// NewsCategories lists every category in display order
var NewsCategories = []NewsCategory{
	CategoryPolitics,
	CategoryEconomy,
	CategorySociety,
	CategoryCulture,
	CategoryWorld,
	CategoryScience,
}

// Valid reports whether c is a known category
func (c NewsCategory) Valid() bool {
	for _, known := range NewsCategories {
		if c == known {
			return true
		}
	}
	return false
}
