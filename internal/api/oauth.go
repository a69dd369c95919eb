package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"omninews/internal/core"
	"omninews/internal/models"
)

// GoogleUserInfo is the subset of the Google OpenID user-info document
// used to register a Google sign-in
type GoogleUserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// LoginRequest converts the user info into the /user/login body
func (g GoogleUserInfo) LoginRequest() models.LoginRequest {
	return models.LoginRequest{
		UserEmail:               g.Email,
		UserDisplayName:         g.Name,
		UserPhotoURL:            g.Picture,
		UserSocialLoginProvider: "google",
		UserSocialProviderID:    g.Sub,
		UserPlatform:            "web",
	}
}

// User converts the user info into the session identity
func (g GoogleUserInfo) User() models.User {
	return models.User{
		Email:       g.Email,
		DisplayName: g.Name,
		PhotoURL:    g.Picture,
	}
}

// FetchGoogleUserInfo resolves a Google OAuth access token to the user's
// identity. The request goes to Google, not the OmniNews API, so it never
// carries the session token.
func (c *Client) FetchGoogleUserInfo(ctx context.Context, userInfoURL, accessToken string) (GoogleUserInfo, error) {
	var info GoogleUserInfo

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return info, fmt.Errorf("failed to build user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Google user info request failed", "error", err)
		return info, core.NewUpstreamError("Google sign-in could not be completed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return info, core.NewUpstreamError("Google sign-in could not be completed", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Google user info rejected", "status", resp.StatusCode)
		return info, core.NewUnauthorizedError("Failed to fetch user info", newStatusError(http.MethodGet, userInfoURL, resp.StatusCode, body))
	}

	if err := json.Unmarshal(body, &info); err != nil {
		return info, core.NewUpstreamError("Google sign-in could not be completed", err)
	}
	if info.Email == "" {
		return info, core.NewUnauthorizedError("Google account has no email address", nil)
	}
	return info, nil
}
