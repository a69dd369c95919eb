package auth

import (
	"errors"

	"omninews/internal/models"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingToken       = errors.New("access token is required")
	ErrMissingProviderID  = errors.New("provider id and email are required")
)

// AnonymousUser stands in for the user on requests without a session
var AnonymousUser = &models.User{}

// IsAnonymous reports whether u is the anonymous user
func IsAnonymous(u *models.User) bool {
	return u == nil || u == AnonymousUser
}

// DemoLoginRequest is the body of the demo login form
type DemoLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries the OAuth access token obtained from Google
type GoogleLoginRequest struct {
	AccessToken string `json:"access_token"`
}

// AppleLoginRequest carries the Apple provider id. The email is kept for
// token refresh.
type AppleLoginRequest struct {
	ProviderID string `json:"provider_id"`
	Email      string `json:"email"`
}

// LoginResponse is returned by the JSON login endpoints
type LoginResponse struct {
	User     models.User `json:"user"`
	Redirect string      `json:"redirect"`
}
