// Package localstore is the server-side analogue of browser local storage: a
// flat blob store holding one serialized value per key. Carts and chat session
// ids live here.
package localstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value exists for the key.
var ErrNotFound = errors.New("localstore: key not found")

// Store is the minimal contract every backing implementation satisfies.
// Values are opaque serialized blobs; read-modify-write of a single key is
// the only access pattern.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
