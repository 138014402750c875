// Package localstore contains the client's local key/value store, backed by
// SQLite. It holds session state (the access token and the cached user)
// between CLI runs.
package localstore

import "context"

// Repository is a small key/value store. Get returns nil (no error) for an
// absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
