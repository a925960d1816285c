package types

import "context"

// KeyValueStore is the storage port behind every collection. Values are
// opaque bytes; callers own serialization.
type KeyValueStore interface {
	// Get returns the value stored under key. found is false, with a nil
	// error, when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the value stored under key. A failed Set leaves the
	// previous value in place.
	Set(ctx context.Context, key string, value []byte) error
}
