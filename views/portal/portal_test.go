package portal

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omninews/internal/core"
	"omninews/internal/models"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestLoginPage(t *testing.T) {
	html := render(t, LoginPage("/omninews", ""))

	assert.Contains(t, html, `action="/omninews/login/demo"`)
	assert.Contains(t, html, `name="email"`)
	assert.NotContains(t, html, `role="alert"`)
}

func TestLoginPageEscapesError(t *testing.T) {
	html := render(t, LoginPage("/omninews", `<script>alert(1)</script>`))

	assert.Contains(t, html, `role="alert"`)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestShell(t *testing.T) {
	user := &models.User{Email: "a@b.c", Theme: "dark"}
	nav := []core.NavItem{
		{Name: "news", Description: "Korean news", Path: "/omninews/api/news"},
		{Name: "rss", Description: "RSS feeds", Path: "/omninews/api/rss/channels"},
	}

	html := render(t, Shell("/omninews", user, nav))

	assert.Contains(t, html, `<span class="text-sm">a@b.c</span>`)
	assert.Contains(t, html, `action="/omninews/logout"`)
	assert.Contains(t, html, `data-view="news"`)
	assert.Contains(t, html, `href="/omninews/api/rss/channels"`)
	assert.Contains(t, html, "bg-stone-900")
	assert.Contains(t, html, `<main id="view"`)
}

func TestShellWithoutUser(t *testing.T) {
	html := render(t, Shell("/omninews", nil, nil))

	assert.NotContains(t, html, `<span class="text-sm">`)
	assert.Contains(t, html, "bg-stone-50")
}

func TestBodyClassMergesTheme(t *testing.T) {
	class := bodyClass("paper")
	assert.Contains(t, class, "bg-amber-50")
	assert.NotContains(t, class, "bg-stone-50")
	assert.Equal(t, "Jane", displayName(&models.User{Email: "j@x", DisplayName: "Jane"}))
}
