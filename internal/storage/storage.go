// Package storage is the client's durable key/value storage. It plays the
// part browser local storage plays for a web client: a flat string map that
// survives restarts.
package storage

import (
	"context"
)

// Well-known keys
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserEmail    = "user_email"
	KeySession      = "omninews-auth"
)

// Storage is a durable string map. A missing key is not an error: GetItem
// reports it through ok.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
