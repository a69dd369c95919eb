package models

// SubscriptionStatus is the premium subscription state
type SubscriptionStatus struct {
	IsSubscribed        bool   `json:"is_subscribed"`
	SubscriptionEndDate string `json:"subscription_end_date,omitempty"`
}

// ChannelSubscriptionRequest subscribes to or unsubscribes from a channel
type ChannelSubscriptionRequest struct {
	ChannelID int64 `json:"channel_id"`
}

// RegisterSubscriptionRequest records an in-app purchase
type RegisterSubscriptionRequest struct {
	TransactionID string `json:"transaction_id"`
	Platform      string `json:"platform"`
	IsTest        bool   `json:"is_test"`
}
