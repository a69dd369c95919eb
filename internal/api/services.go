package api

// Services groups the endpoint modules over one client
type Services struct {
	Auth          *AuthService
	Folders       *FolderService
	RSS           *RSSService
	Subscriptions *SubscriptionService
	Search        *SearchService
	News          *NewsService
}

// NewServices builds every endpoint module on c
func NewServices(c *Client) *Services {
	return &Services{
		Auth:          &AuthService{client: c},
		Folders:       &FolderService{client: c},
		RSS:           &RSSService{client: c},
		Subscriptions: &SubscriptionService{client: c},
		Search:        &SearchService{client: c},
		News:          &NewsService{client: c},
	}
}
