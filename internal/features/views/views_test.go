package views

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omninews/internal/feed"
	"omninews/internal/models"
)

func TestSummarizeStripsMarkup(t *testing.T) {
	got := Summarize(`<p>Hello <b>world</b> &amp; <script>alert(1)</script>friends</p>`, 0)
	assert.Equal(t, "Hello world & friends", got)
	assert.Empty(t, Summarize("", 10))
}

func TestSummarizeTruncatesOnRunes(t *testing.T) {
	got := Summarize("정치 경제 사회 생활 문화", 5)
	assert.Equal(t, "정치 경제…", got)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestPublishedLabel(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 hours ago", Published(now.Add(-3*time.Hour), now))
	assert.Empty(t, Published(time.Time{}, now))
}

func TestNewNewsPrefersSummary(t *testing.T) {
	now := time.Now()
	n := NewNews(models.NewsItem{NewsSummary: "short", NewsDescription: "<p>long</p>"}, now)
	assert.Equal(t, "short", n.Summary)

	n = NewNews(models.NewsItem{NewsDescription: "<p>long</p>"}, now)
	assert.Equal(t, "long", n.Summary)
}

func TestFromPage(t *testing.T) {
	page := FromPage(feed.Page[int]{Items: []int{1, 2}, Pages: 1, HasNext: true}, func(i int) int { return i * 10 })
	assert.Equal(t, []int{10, 20}, page.Items)
	assert.False(t, page.Empty)

	empty := FromPage(feed.Page[int]{}, func(i int) int { return i })
	assert.True(t, empty.Empty)
	assert.NotNil(t, empty.Items)

	list := NewList[string](nil)
	assert.True(t, list.Empty)
	assert.NotNil(t, list.Items)
}

func TestPageQuery(t *testing.T) {
	page, err := PageQuery(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	page, err = PageQuery(httptest.NewRequest("GET", "/x?page=3", nil))
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	_, err = PageQuery(httptest.NewRequest("GET", "/x?page=0", nil))
	assert.Error(t, err)
}
