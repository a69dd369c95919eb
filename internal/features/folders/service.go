// Package folders is the folder view: user-named groups of subscribed
// channels.
package folders

import (
	"context"
	"strings"
	"unicode/utf8"

	"omninews/internal/cache"
	"omninews/internal/core"
	"omninews/internal/models"
)

// MaxNameLength bounds folder names, in runes
const MaxNameLength = 50

// FolderAPI is the subset of the folder endpoints the view uses
type FolderAPI interface {
	Create(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]models.Folder, error)
	Rename(ctx context.Context, folderID int64, name string) error
	Delete(ctx context.Context, folderID int64) error
	AddChannel(ctx context.Context, folderID, channelID int64) error
	RemoveChannel(ctx context.Context, folderID, channelID int64) error
}

// Service validates folder changes and keeps the cached folder list current
type Service struct {
	api    FolderAPI
	cache  *cache.Cache
	logger *core.Logger
}

// NewService creates a new folder service
func NewService(api FolderAPI, c *cache.Cache, logger *core.Logger) *Service {
	return &Service{api: api, cache: c, logger: logger}
}

// ValidateName trims name and rejects blank or overlong names
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", core.NewValidationError("Folder name is required", nil)
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return "", core.NewValidationError("Folder name is too long", nil)
	}
	return trimmed, nil
}

// List returns the folders with their channels
func (s *Service) List(ctx context.Context) ([]models.Folder, error) {
	return cache.Get(ctx, s.cache, cache.KeyFolders, s.api.List)
}

// Create makes a folder named name
func (s *Service) Create(ctx context.Context, name string) (int64, error) {
	name, err := ValidateName(name)
	if err != nil {
		return 0, err
	}

	id, err := s.api.Create(ctx, name)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Created folder", "folder_id", id)
	s.cache.Invalidate(cache.KeyFolders)
	return id, nil
}

// Rename renames a folder
func (s *Service) Rename(ctx context.Context, folderID int64, name string) error {
	name, err := ValidateName(name)
	if err != nil {
		return err
	}

	if err := s.api.Rename(ctx, folderID, name); err != nil {
		return err
	}
	s.cache.Invalidate(cache.KeyFolders)
	return nil
}

// Delete removes a folder; its channels stay subscribed
func (s *Service) Delete(ctx context.Context, folderID int64) error {
	if err := s.api.Delete(ctx, folderID); err != nil {
		return err
	}

	s.logger.Info("Deleted folder", "folder_id", folderID)
	s.cache.Invalidate(cache.KeyFolders)
	return nil
}

// AddChannel puts a channel into a folder. A channel already in the folder
// is rejected without a request.
func (s *Service) AddChannel(ctx context.Context, folderID, channelID int64) error {
	if folders, ok := cache.Peek[[]models.Folder](s.cache, cache.KeyFolders); ok {
		for _, f := range folders {
			if f.FolderID == folderID && models.ContainsChannel(f.Channels, channelID) {
				return core.NewValidationError("Channel is already in this folder", nil)
			}
		}
	}

	if err := s.api.AddChannel(ctx, folderID, channelID); err != nil {
		return err
	}
	s.cache.Invalidate(cache.KeyFolders)
	return nil
}

// RemoveChannel takes a channel out of a folder
func (s *Service) RemoveChannel(ctx context.Context, folderID, channelID int64) error {
	if err := s.api.RemoveChannel(ctx, folderID, channelID); err != nil {
		return err
	}
	s.cache.Invalidate(cache.KeyFolders)
	return nil
}
