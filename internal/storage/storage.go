// Package storage abstracts the key-value persistence the collection stores
// sit on. Each storage key holds one JSON document, mirroring the original
// client-side schema (one collection per key).
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value exists for the key
var ErrKeyNotFound = errors.New("key not found")

// Store is a minimal key-value store for JSON documents
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
