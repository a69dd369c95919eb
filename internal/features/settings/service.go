// Package settings is the settings view: theme, notifications, account
// removal and the premium subscription.
package settings

import (
	"context"
	"slices"
	"strings"

	"omninews/internal/cache"
	"omninews/internal/core"
	"omninews/internal/models"
)

// DefaultTheme is used when the server has none stored
const DefaultTheme = "paper"

// Themes lists the selectable themes
var Themes = []string{"paper", "dark", "light"}

// PreferencesAPI is the subset of the user endpoints the view uses
type PreferencesAPI interface {
	GetTheme(ctx context.Context) (models.ThemeResponse, error)
	UpdateTheme(ctx context.Context, theme string) error
	UpdateNotifications(ctx context.Context, settings models.NotificationSettings) error
}

// PremiumAPI is the subset of the subscription endpoints the view uses
type PremiumAPI interface {
	Verify(ctx context.Context) (models.SubscriptionStatus, error)
	Register(ctx context.Context, req models.RegisterSubscriptionRequest) (bool, error)
}

// Account ends or removes the signed-in account
type Account interface {
	CurrentUser() (models.User, bool)
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// ThemeStore keeps the theme on the session identity
type ThemeStore interface {
	UpdateTheme(ctx context.Context, theme string) error
}

// Service applies settings changes
type Service struct {
	prefs   PreferencesAPI
	premium PremiumAPI
	account Account
	themes  ThemeStore
	cache   *cache.Cache
	logger  *core.Logger
}

// NewService creates a new settings service
func NewService(prefs PreferencesAPI, premium PremiumAPI, account Account, themes ThemeStore, c *cache.Cache, logger *core.Logger) *Service {
	return &Service{
		prefs:   prefs,
		premium: premium,
		account: account,
		themes:  themes,
		cache:   c,
		logger:  logger,
	}
}

// Theme returns the stored theme, or DefaultTheme
func (s *Service) Theme(ctx context.Context) (string, error) {
	resp, err := cache.Get(ctx, s.cache, cache.KeyTheme, s.prefs.GetTheme)
	if err != nil {
		return "", err
	}
	if resp.Theme == "" {
		return DefaultTheme, nil
	}
	return resp.Theme, nil
}

// SetTheme stores theme on the server and returns it normalized. The session identity follows only
// once the server accepted it.
func (s *Service) SetTheme(ctx context.Context, theme string) (string, error) {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if !slices.Contains(Themes, theme) {
		return "", core.NewValidationError("Unknown theme: "+theme, nil)
	}

	if err := s.prefs.UpdateTheme(ctx, theme); err != nil {
		return "", err
	}
	s.cache.Set(cache.KeyTheme, models.ThemeResponse{Theme: theme})
	return theme, s.themes.UpdateTheme(ctx, theme)
}

// SetNotifications turns push notifications on or off
func (s *Service) SetNotifications(ctx context.Context, enabled bool) error {
	return s.prefs.UpdateNotifications(ctx, models.NotificationSettings{UserNotificationPush: &enabled})
}

// Premium returns the premium subscription state
func (s *Service) Premium(ctx context.Context) (models.SubscriptionStatus, error) {
	return s.premium.Verify(ctx)
}

// RegisterPremium records a purchase
func (s *Service) RegisterPremium(ctx context.Context, req models.RegisterSubscriptionRequest) error {
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	if req.TransactionID == "" {
		return core.NewValidationError("transaction_id is required", nil)
	}
	if req.Platform == "" {
		req.Platform = "web"
	}

	ok, err := s.premium.Register(ctx, req)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewValidationError("Purchase was not accepted", nil)
	}
	s.logger.Info("Registered premium subscription", "platform", req.Platform)
	return nil
}
