package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OMNINEWS_STORAGE_SECRET", "s3cret")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, config.API.BaseURL)
	assert.Equal(t, DefaultBasePath, config.Server.BasePath)
	assert.Equal(t, 30*time.Second, config.API.Timeout)
	assert.Equal(t, 20, config.Feeds.PageSize)
	assert.True(t, config.Feeds.ProbeFeeds)
	assert.Equal(t, "127.0.0.1:5173", config.Addr())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("OMNINEWS_STORAGE_SECRET", "s3cret")
	t.Setenv("OMNINEWS_API_BASE_URL", "https://api.example.com/v1/api")
	t.Setenv("OMNINEWS_API_TIMEOUT", "5s")
	t.Setenv("OMNINEWS_BASE_PATH", "news/")
	t.Setenv("OMNINEWS_PROBE_FEEDS", "off")
	t.Setenv("OMNINEWS_PORT", "8080")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/api", config.API.BaseURL)
	assert.Equal(t, 5*time.Second, config.API.Timeout)
	assert.Equal(t, "/news", config.Server.BasePath)
	assert.False(t, config.Feeds.ProbeFeeds)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestValidateRejects(t *testing.T) {
	t.Setenv("OMNINEWS_STORAGE_SECRET", "")
	_, err := LoadConfig()
	require.Error(t, err)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrCodeConfiguration, appErr.Code)

	t.Setenv("OMNINEWS_STORAGE_SECRET", "s3cret")
	t.Setenv("OMNINEWS_API_BASE_URL", "not a url")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestNormalizeBasePath(t *testing.T) {
	assert.Equal(t, "", normalizeBasePath("/"))
	assert.Equal(t, "/omninews", normalizeBasePath("omninews"))
	assert.Equal(t, "/a/b", normalizeBasePath(" /a/b// "))
}
