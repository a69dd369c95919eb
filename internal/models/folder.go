package models

// Folder is a user-owned grouping of channels. A channel may be in any
// number of folders.
type Folder struct {
	FolderID   int64        `json:"folder_id,omitempty"`
	FolderName string       `json:"folder_name,omitempty"`
	Channels   []RssChannel `json:"channels,omitempty"`
}

// FolderRequest is the body shared by the folder endpoints
type FolderRequest struct {
	FolderID   int64  `json:"folder_id,omitempty"`
	FolderName string `json:"folder_name,omitempty"`
}

// FolderChannelRequest links a channel to a folder
type FolderChannelRequest struct {
	FolderID  int64 `json:"folder_id"`
	ChannelID int64 `json:"channel_id"`
}
