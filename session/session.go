// Package session keeps server-side sessions that map an opaque id to the
// authenticated user.
package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store is a key-value session store. Sessions expire after the TTL the
// store was constructed with.
type Store interface {
	Create(ctx context.Context, userID uint) (string, error)
	Get(ctx context.Context, id string) (uint, error)
	Delete(ctx context.Context, id string) error
}
