package api

import (
	"context"

	"omninews/internal/models"
)

// AuthService covers the /user endpoints
type AuthService struct {
	client *Client
}

// Login signs in with a social provider identity
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := s.client.Post(ctx, "/user/login", req, &resp)
	return resp, err
}

// DemoLogin signs in with demo credentials
func (s *AuthService) DemoLogin(ctx context.Context, req models.DemoLoginRequest) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := s.client.Post(ctx, "/user/demo_login", req, &resp)
	return resp, err
}

// AppleLogin signs in with an Apple provider id
func (s *AuthService) AppleLogin(ctx context.Context, providerID string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := s.client.Post(ctx, "/user/apple/login", models.AppleLoginRequest{UserSocialProviderID: providerID}, &resp)
	return resp, err
}

// VerifyToken checks the stored access token with the server
func (s *AuthService) VerifyToken(ctx context.Context) error {
	return s.client.Get(ctx, "/user/access-token", nil, nil)
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.Post(ctx, "/user/logout", nil, nil)
}

// DeleteAccount removes the account server-side
func (s *AuthService) DeleteAccount(ctx context.Context) error {
	return s.client.Delete(ctx, "/user/delete", nil, nil)
}

func (s *AuthService) UpdateNotifications(ctx context.Context, settings models.NotificationSettings) error {
	return s.client.Post(ctx, "/user/notification", settings, nil)
}

func (s *AuthService) GetTheme(ctx context.Context) (models.ThemeResponse, error) {
	var resp models.ThemeResponse
	err := s.client.Get(ctx, "/user/theme", nil, &resp)
	return resp, err
}

func (s *AuthService) UpdateTheme(ctx context.Context, theme string) error {
	return s.client.Post(ctx, "/user/theme", models.ThemeRequest{Theme: theme}, nil)
}
