// Package storage defines the durable key-value capability behind the session
// manager and its drivers.
package storage

import "context"

// Store is a string-valued key-value store.
//
// Read reports ok=false when the key is absent. Remove of an absent key is a
// no-op. Implementations must be safe for concurrent use.
type Store interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
