package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFeature struct {
	*BaseFeature
	routes  []Route
	initErr error
	inits   int
}

func newTestFeature(name string, enabled bool, routes ...Route) *testFeature {
	return &testFeature{BaseFeature: NewBaseFeature(name, name+" view", enabled, NopLogger()), routes: routes}
}

func (f *testFeature) Init(ctx context.Context) error {
	f.inits++
	return f.initErr
}

func (f *testFeature) Routes() []Route { return f.routes }

func ok(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(body)) }
}

func TestRegistryOrderAndNav(t *testing.T) {
	reg := NewRegistry(NopLogger())
	require.NoError(t, reg.Register(newTestFeature("news", true,
		Route{Method: http.MethodPost, Path: "/news/more", Handler: ok("more")},
		Route{Method: http.MethodGet, Path: "/news", Handler: ok("news")})))
	require.NoError(t, reg.Register(newTestFeature("hidden", false)))
	require.NoError(t, reg.Register(newTestFeature("rss", true)))

	assert.Error(t, reg.Register(newTestFeature("news", true)))

	nav := reg.Nav("/omninews")
	require.Len(t, nav, 2)
	assert.Equal(t, "/omninews/api/news", nav[0].Path)
	assert.Equal(t, "/omninews/api/rss", nav[1].Path)
}

func TestRegistryMountAndInit(t *testing.T) {
	reg := NewRegistry(NopLogger())
	enabled := newTestFeature("news", true, Route{Method: http.MethodGet, Path: "/news", Handler: ok("news")})
	disabled := newTestFeature("off", false, Route{Method: http.MethodGet, Path: "/off", Handler: ok("off")})
	require.NoError(t, reg.Register(enabled))
	require.NoError(t, reg.Register(disabled))

	r := chi.NewRouter()
	reg.Mount(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news", nil))
	assert.Equal(t, "news", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/off", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, reg.InitAll(context.Background()))
	assert.Equal(t, 1, enabled.inits)
	assert.Zero(t, disabled.inits)

	enabled.initErr = errors.New("boom")
	err := reg.InitAll(context.Background())
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrCodeFeature, appErr.Code)
}

func TestBaseFeatureDefaults(t *testing.T) {
	f := NewBaseFeature("settings", "Account settings", true, NopLogger())
	ctx := context.Background()

	require.NoError(t, f.Init(ctx))
	assert.Empty(t, f.Routes())
	require.NoError(t, f.Shutdown(ctx))

	reg := NewRegistry(NopLogger())
	require.NoError(t, reg.Register(f))
	nav := reg.Nav("/omninews")
	require.Len(t, nav, 1)
	assert.Equal(t, "/omninews/api/settings", nav[0].Path)
}
