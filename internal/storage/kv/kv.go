// Package kv provides the persistent store adapter: an opaque, string-keyed
// byte store that survives restarts. Collections are serialized whole and
// written back after every mutation; there is no partial update and no
// cross-writer coordination (last writer wins).
package kv

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned by Get when no value exists under the key.
var ErrNotFound = errors.New("key not found")

// Store is the interface the domain stores persist through.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the value under key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}
