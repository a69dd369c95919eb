package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"omninews/internal/api"
	"omninews/internal/cache"
	"omninews/internal/core"
	"omninews/internal/models"
	"omninews/internal/session"
)

const loginFailedMessage = "Login failed. Please check your credentials."

// Service signs the local session in and out against the API
type Service struct {
	client            *api.Client
	auth              *api.AuthService
	session           *session.Store
	cache             *cache.Cache
	googleUserInfoURL string
	logger            *core.Logger
}

// NewService creates a new authentication service
func NewService(client *api.Client, auth *api.AuthService, sess *session.Store, c *cache.Cache, config *core.Config, logger *core.Logger) *Service {
	return &Service{
		client:            client,
		auth:              auth,
		session:           sess,
		cache:             c,
		googleUserInfoURL: config.Auth.GoogleUserInfoURL,
		logger:            logger.ForFeature("auth"),
	}
}

// DemoLogin signs in with demo credentials
func (s *Service) DemoLogin(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, core.NewValidationError("Email and password are required", ErrMissingCredentials)
	}

	tokens, err := s.auth.DemoLogin(ctx, models.DemoLoginRequest{UserEmail: email, UserPassword: password})
	if err != nil {
		return models.User{}, loginError(err)
	}

	user := models.User{Email: email, DisplayName: models.DisplayNameFromEmail(email)}
	return user, s.establish(ctx, tokens, user)
}

// GoogleLogin resolves a Google OAuth access token to the user's identity
// and registers the sign-in with the API
func (s *Service) GoogleLogin(ctx context.Context, accessToken string) (models.User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return models.User{}, core.NewValidationError("Google access token is required", ErrMissingToken)
	}

	info, err := s.client.FetchGoogleUserInfo(ctx, s.googleUserInfoURL, accessToken)
	if err != nil {
		s.logger.Warn("Google user info lookup failed", "error", err)
		return models.User{}, err
	}

	tokens, err := s.auth.Login(ctx, info.LoginRequest())
	if err != nil {
		return models.User{}, loginError(err)
	}

	user := info.User()
	return user, s.establish(ctx, tokens, user)
}

// AppleLogin signs in with an Apple provider id
func (s *Service) AppleLogin(ctx context.Context, providerID, email string) (models.User, error) {
	providerID, email = strings.TrimSpace(providerID), strings.TrimSpace(email)
	if providerID == "" || email == "" {
		return models.User{}, core.NewValidationError("Apple provider id and email are required", ErrMissingProviderID)
	}

	tokens, err := s.auth.AppleLogin(ctx, providerID)
	if err != nil {
		return models.User{}, loginError(err)
	}

	user := models.User{Email: email, DisplayName: models.DisplayNameFromEmail(email)}
	return user, s.establish(ctx, tokens, user)
}

// Logout tells the API, then removes the local tokens whatever it answered
func (s *Service) Logout(ctx context.Context) error {
	if err := s.auth.Logout(ctx); err != nil {
		s.logger.Warn("Server logout failed, clearing local session anyway", "error", err)
	}
	s.cache.Clear()
	return s.session.Logout(ctx)
}

// DeleteAccount deletes the account and wipes all local storage
func (s *Service) DeleteAccount(ctx context.Context) error {
	if err := s.auth.DeleteAccount(ctx); err != nil {
		return err
	}
	s.cache.Clear()
	s.logger.Info("Account deleted")
	return s.session.Wipe(ctx)
}

// Authenticated reports whether the session may enter protected views
func (s *Service) Authenticated(ctx context.Context) bool {
	return s.session.Authenticated(ctx)
}

// Reconcile aligns the session record with the stored tokens
func (s *Service) Reconcile(ctx context.Context) error {
	return s.session.Reconcile(ctx)
}

// CurrentUser returns the signed-in user
func (s *Service) CurrentUser() (models.User, bool) {
	return s.session.User()
}

func (s *Service) establish(ctx context.Context, tokens models.AuthResponse, user models.User) error {
	if tokens.AccessToken == "" {
		return core.NewUpstreamError(loginFailedMessage, fmt.Errorf("login response carried no access token"))
	}
	s.cache.Clear()
	if err := s.session.Login(ctx, tokens, user); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// loginError keeps the server's message and falls back to a generic one
func loginError(err error) error {
	var se *api.StatusError
	if !errors.As(err, &se) {
		return err
	}
	if se.Message != "" {
		return err
	}
	if se.StatusCode >= 500 {
		return core.NewUpstreamError(loginFailedMessage, err)
	}
	return core.NewUnauthorizedError(loginFailedMessage, err)
}
