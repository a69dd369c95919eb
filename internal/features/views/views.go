// Package views converts API records into the view models the shell serves.
package views

import (
	"html"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"

	"omninews/internal/feed"
	"omninews/internal/models"
)

// SummaryLength caps summaries, in runes
const SummaryLength = 280

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Item is an RSS item prepared for display
type Item struct {
	models.RssItem
	Summary   string `json:"summary"`
	Published string `json:"published,omitempty"`
}

// News is a news article prepared for display
type News struct {
	models.NewsItem
	Summary   string `json:"summary"`
	Published string `json:"published,omitempty"`
}

// NewItem builds the display form of it relative to now
func NewItem(it models.RssItem, now time.Time) Item {
	return Item{
		RssItem:   it,
		Summary:   Summarize(it.RssDescription, SummaryLength),
		Published: Published(it.PublishedAt(), now),
	}
}

// NewNews builds the display form of n relative to now. The API's own
// summary is preferred over the description.
func NewNews(n models.NewsItem, now time.Time) News {
	text := n.NewsSummary
	if strings.TrimSpace(text) == "" {
		text = n.NewsDescription
	}
	return News{
		NewsItem:  n,
		Summary:   Summarize(text, SummaryLength),
		Published: Published(n.PublishedAt(), now),
	}
}

// Summarize strips markup from s, collapses whitespace and truncates it to
// max runes
func Summarize(s string, max int) string {
	if s == "" {
		return ""
	}

	text := html.UnescapeString(strictPolicy().Sanitize(s))
	text = strings.Join(strings.Fields(text), " ")

	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := strings.TrimRightFunc(string(runes[:max]), func(r rune) bool { return r == ' ' })
	return cut + "…"
}

// Published renders t as a relative label such as "3 hours ago". Unknown
// dates render empty.
func Published(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FeedPage is the JSON form of a growing feed
type FeedPage[T any] struct {
	Items   []T  `json:"items"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	Loading bool `json:"loading"`
	Empty   bool `json:"empty"`
}

// FromPage converts a pager snapshot with conv
func FromPage[S, T any](p feed.Page[S], conv func(S) T) FeedPage[T] {
	items := make([]T, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, conv(it))
	}
	return FeedPage[T]{
		Items:   items,
		Pages:   p.Pages,
		HasNext: p.HasNext,
		Loading: p.Loading,
		Empty:   len(items) == 0,
	}
}

// Items converts a slice of RSS items
func Items(items []models.RssItem, now time.Time) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, NewItem(it, now))
	}
	return out
}

// List wraps a plain collection; Empty marks an absent collection so views
// render an empty state instead of an error
type List[T any] struct {
	Items []T  `json:"items"`
	Empty bool `json:"empty"`
}

// NewList wraps items, never returning a nil slice
func NewList[T any](items []T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Empty: len(items) == 0}
}
