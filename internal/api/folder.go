package api

import (
	"context"

	"omninews/internal/models"
)

// FolderService covers the /folder endpoints
type FolderService struct {
	client *Client
}

// Create makes a folder and returns its id
func (s *FolderService) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.client.Post(ctx, "/folder", models.FolderRequest{FolderName: name}, &id)
	return id, err
}

// List returns the user's folders with their channels
func (s *FolderService) List(ctx context.Context) ([]models.Folder, error) {
	var folders []models.Folder
	err := s.client.Get(ctx, "/folder", nil, &folders)
	return folders, err
}

// Rename changes a folder's name
func (s *FolderService) Rename(ctx context.Context, folderID int64, name string) error {
	return s.client.Put(ctx, "/folder", models.FolderRequest{FolderID: folderID, FolderName: name}, nil)
}

func (s *FolderService) Delete(ctx context.Context, folderID int64) error {
	return s.client.Delete(ctx, "/folder", models.FolderRequest{FolderID: folderID}, nil)
}

func (s *FolderService) AddChannel(ctx context.Context, folderID, channelID int64) error {
	return s.client.Post(ctx, "/folder/channel", models.FolderChannelRequest{FolderID: folderID, ChannelID: channelID}, nil)
}

func (s *FolderService) RemoveChannel(ctx context.Context, folderID, channelID int64) error {
	return s.client.Delete(ctx, "/folder/channel", models.FolderChannelRequest{FolderID: folderID, ChannelID: channelID}, nil)
}
