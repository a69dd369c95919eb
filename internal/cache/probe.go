package cache

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"omninews/internal/core"
)

// FeedInfo summarizes a probed feed
type FeedInfo struct {
	Title    string
	Link     string
	FeedType string
	Items    int
}

// GofeedProber fetches and parses a feed locally so an obviously broken URL
// is rejected before the server is asked to register it
type GofeedProber struct {
	parser *gofeed.Parser
	logger *core.Logger
}

// NewGofeedProber creates a prober with the given request timeout
func NewGofeedProber(timeout time.Duration, userAgent string, logger *core.Logger) *GofeedProber {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &GofeedProber{
		parser: parser,
		logger: logger.ForFeature("probe"),
	}
}

// Probe parses the feed at feedURL
func (p *GofeedProber) Probe(ctx context.Context, feedURL string) (*FeedInfo, error) {
	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		p.logger.Info("Feed probe failed", "url", feedURL, "error", err)
		return nil, core.NewValidationError("The URL does not serve a readable RSS or Atom feed", err)
	}

	return &FeedInfo{
		Title:    feed.Title,
		Link:     feed.Link,
		FeedType: feed.FeedType,
		Items:    len(feed.Items),
	}, nil
}
