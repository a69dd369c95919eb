package session

import (
	"context"

	"omninews/internal/storage"
)

// AccessToken returns the stored access token
func (s *Store) AccessToken(ctx context.Context) (string, bool, error) {
	token, ok, err := s.storage.GetItem(ctx, storage.KeyAccessToken)
	if err != nil || !ok || token == "" {
		return "", false, err
	}
	return token, true, nil
}

// RefreshCredentials returns the refresh token and user email. ok is false
// unless both are stored.
func (s *Store) RefreshCredentials(ctx context.Context) (token, email string, ok bool, err error) {
	token, hasToken, err := s.storage.GetItem(ctx, storage.KeyRefreshToken)
	if err != nil {
		return "", "", false, err
	}
	email, hasEmail, err := s.storage.GetItem(ctx, storage.KeyUserEmail)
	if err != nil {
		return "", "", false, err
	}
	if !hasToken || !hasEmail || token == "" || email == "" {
		return "", "", false, nil
	}
	return token, email, true, nil
}

// SetAccessToken replaces the stored access token after a refresh
func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	return s.storage.SetItem(ctx, storage.KeyAccessToken, token)
}

// Expire ends a session the server no longer accepts: the tokens are
// removed and the user is signed out.
func (s *Store) Expire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeTokensLocked(ctx); err != nil {
		return err
	}
	s.logger.Warn("Session expired")
	return s.clearUserLocked(ctx)
}
