package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omninews/internal/cache"
	"omninews/internal/core"
	"omninews/internal/models"
	"omninews/internal/session"
	"omninews/internal/storage"
)

type plainErrors struct{}

func (plainErrors) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	core.HandleError(w, err)
}

type fakePrefs struct {
	theme     string
	themeErr  error
	themeGets int
	push      *bool
}

func (f *fakePrefs) GetTheme(context.Context) (models.ThemeResponse, error) {
	f.themeGets++
	return models.ThemeResponse{Theme: f.theme}, nil
}

func (f *fakePrefs) UpdateTheme(_ context.Context, theme string) error {
	if f.themeErr != nil {
		return f.themeErr
	}
	f.theme = theme
	return nil
}

func (f *fakePrefs) UpdateNotifications(_ context.Context, s models.NotificationSettings) error {
	f.push = s.UserNotificationPush
	return nil
}

type fakePremium struct {
	registered []models.RegisterSubscriptionRequest
}

func (f *fakePremium) Verify(context.Context) (models.SubscriptionStatus, error) {
	return models.SubscriptionStatus{IsSubscribed: len(f.registered) > 0}, nil
}

func (f *fakePremium) Register(_ context.Context, req models.RegisterSubscriptionRequest) (bool, error) {
	f.registered = append(f.registered, req)
	return true, nil
}

type fakeAccount struct {
	sess    *session.Store
	deleted bool
	logouts int
}

func (f *fakeAccount) CurrentUser() (models.User, bool) { return f.sess.User() }

func (f *fakeAccount) Logout(ctx context.Context) error {
	f.logouts++
	return f.sess.Logout(ctx)
}

func (f *fakeAccount) DeleteAccount(ctx context.Context) error {
	f.deleted = true
	return f.sess.Wipe(ctx)
}

type settingsFixture struct {
	prefs   *fakePrefs
	premium *fakePremium
	account *fakeAccount
	session *session.Store
	router  chi.Router
}

func newSettingsFixture(t *testing.T) *settingsFixture {
	t.Helper()
	ctx := context.Background()
	logger := core.NopLogger()

	sess, err := session.New(ctx, storage.NewMemoryStore(), logger)
	require.NoError(t, err)
	require.NoError(t, sess.Login(ctx, models.AuthResponse{AccessToken: "t1", RefreshToken: "r1"}, models.User{Email: "a@b.com"}))

	fx := &settingsFixture{
		prefs:   &fakePrefs{},
		premium: &fakePremium{},
		account: &fakeAccount{sess: sess},
		session: sess,
	}
	service := NewService(fx.prefs, fx.premium, fx.account, sess, cache.New(logger), logger)
	feature := NewFeature(logger, service, fx.account, plainErrors{}, "/omninews/login")

	fx.router = chi.NewRouter()
	for _, route := range feature.Routes() {
		fx.router.Method(route.Method, route.Path, route.Handler)
	}
	return fx
}

func (fx *settingsFixture) send(method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	fx.router.ServeHTTP(rec, req)
	return rec
}

func TestShowDefaultsTheme(t *testing.T) {
	fx := newSettingsFixture(t)

	rec := fx.send(http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data settingsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, DefaultTheme, body.Data.Theme)
	require.NotNil(t, body.Data.User)
	assert.Equal(t, "a@b.com", body.Data.User.Email)
}

func TestThemeFollowsServer(t *testing.T) {
	fx := newSettingsFixture(t)

	rec := fx.send(http.MethodPut, "/settings/theme", `{"theme":" Dark "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dark", fx.prefs.theme)

	user, ok := fx.session.User()
	require.True(t, ok)
	assert.Equal(t, "dark", user.Theme)

	// The cached theme is served without asking again.
	fx.send(http.MethodGet, "/settings", "")
	assert.Zero(t, fx.prefs.themeGets)
}

func TestThemeUnchangedWhenServerFails(t *testing.T) {
	fx := newSettingsFixture(t)
	fx.prefs.themeErr = errors.New("down")

	rec := fx.send(http.MethodPut, "/settings/theme", `{"theme":"light"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	user, _ := fx.session.User()
	assert.Empty(t, user.Theme)
}

func TestUnknownThemeIsRejected(t *testing.T) {
	fx := newSettingsFixture(t)

	rec := fx.send(http.MethodPut, "/settings/theme", `{"theme":"neon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, fx.prefs.theme)
}

func TestNotificationToggle(t *testing.T) {
	fx := newSettingsFixture(t)

	rec := fx.send(http.MethodPut, "/settings/notifications", `{"enabled":false}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, fx.prefs.push)
	assert.False(t, *fx.prefs.push)
}

func TestLeavingRedirectsToLogin(t *testing.T) {
	fx := newSettingsFixture(t)

	rec := fx.send(http.MethodDelete, "/settings/account", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/omninews/login"`)
	assert.True(t, fx.account.deleted)
	assert.False(t, fx.session.Authenticated(context.Background()))
}

func TestPremiumRegistration(t *testing.T) {
	fx := newSettingsFixture(t)

	rec := fx.send(http.MethodPost, "/settings/premium", `{"transaction_id":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fx.send(http.MethodPost, "/settings/premium", `{"transaction_id":"tx-1","is_test":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_subscribed":true`)
	require.Len(t, fx.premium.registered, 1)
	assert.Equal(t, "web", fx.premium.registered[0].Platform)
}
