package repositories

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when no value is stored under a key
var ErrKeyNotFound = errors.New("key not found")

// KVRepository defines the durable string key/value repository interface.
// It knows nothing about JSON; values are opaque strings.
type KVRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Clear(ctx context.Context) error
}
