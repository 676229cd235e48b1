// Package kv is the persisted key-value storage that backs the session:
// plain string keys mapping to string values, like device storage on a phone.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set or was removed.
var ErrNotFound = errors.New("kv: key not found")

// Well-known keys written by the session and profile flows.
const (
	KeyToken        = "token"
	KeyUserID       = "userId"
	KeyEmail        = "email"
	KeyRole         = "role"
	KeyIsLoggedIn   = "isLoggedIn"
	KeyHasOnboarded = "hasOnboarded"
	KeyProfile      = "profile"
)

// AuthKeys are the four keys that together make up a persisted login.
var AuthKeys = []string{KeyToken, KeyUserID, KeyEmail, KeyRole}

// Storage is the persistence contract used by the session store and the API
// client's token source. Implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// MultiGet returns the values of the keys that exist; missing keys are absent from the map.
	MultiGet(ctx context.Context, keys ...string) (map[string]string, error)

	// MultiSet writes all pairs atomically.
	MultiSet(ctx context.Context, pairs map[string]string) error

	// MultiRemove deletes all keys atomically.
	MultiRemove(ctx context.Context, keys ...string) error

	// Close releases the underlying storage.
	Close() error
}
