package models

// AuthResponse is returned by every login endpoint
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginRequest is the social login body
type LoginRequest struct {
	UserEmail               string `json:"user_email,omitempty"`
	UserDisplayName         string `json:"user_display_name,omitempty"`
	UserPhotoURL            string `json:"user_photo_url,omitempty"`
	UserSocialLoginProvider string `json:"user_social_login_provider,omitempty"`
	UserSocialProviderID    string `json:"user_social_provider_id,omitempty"`
	UserPlatform            string `json:"user_platform,omitempty"`
}

// DemoLoginRequest logs in with demo credentials
type DemoLoginRequest struct {
	UserEmail    string `json:"user_email,omitempty"`
	UserPassword string `json:"user_password,omitempty"`
}

// AppleLoginRequest logs in with an Apple provider id
type AppleLoginRequest struct {
	UserSocialProviderID string `json:"user_social_provider_id"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token
type RefreshTokenRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// RefreshTokenResponse carries the new access token
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ThemeResponse is the stored theme preference
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// ThemeRequest updates the theme preference
type ThemeRequest struct {
	Theme string `json:"theme,omitempty"`
}

// NotificationSettings updates push preferences
type NotificationSettings struct {
	UserNotificationPush *bool  `json:"user_notification_push,omitempty"`
	UserFCMToken         string `json:"user_fcm_token,omitempty"`
}
