package rss

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"omninews/internal/core"
)

func TestConfigFromCore(t *testing.T) {
	config := NewConfig(&core.Config{Feeds: core.FeedConfig{PageSize: 20, ProbeFeeds: true}})
	assert.True(t, config.Enabled)
	assert.True(t, config.ProbeFeeds)
	assert.NoError(t, config.Validate())

	config.PageSize = 0
	assert.Error(t, config.Validate())
}
