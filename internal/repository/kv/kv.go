// Package kv implements the collection repositories over a key-value store.
// Each collection serializes as one JSON array (or object) under a fixed
// storage key, matching the original storage schema. Reads degrade to an
// empty collection on storage or decode failure instead of propagating,
// since a missing or corrupt document should never take the service down.
package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/pkg/logger"
)

// Storage keys carried over from the original schema
const (
	keyDonations          = "donations"
	keyUsers              = "users"
	keyOrders             = "ngoOrders"
	keyNotificationPrefix = "notifications_"
	keyGamificationPrefix = "gamification_"
	keySettingsPrefix     = "settings_"
	keyLocationPrefix     = "location_"
)

// readCollection loads and decodes a JSON array. A missing key or a decode
// failure yields an empty slice; only hard storage errors are logged.
func readCollection[T any](ctx context.Context, store storage.Store, log *logger.Logger, key string) []T {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		log.Error(err, "storage read failed", "key", key)
		return nil
	}

	// Decode record by record so one malformed entry doesn't poison the
	// whole collection.
	var rawItems []json.RawMessage
	if err := json.Unmarshal(raw, &rawItems); err != nil {
		log.Error(err, "collection decode failed", "key", key)
		return nil
	}

	items := make([]T, 0, len(rawItems))
	for _, ri := range rawItems {
		var item T
		if err := json.Unmarshal(ri, &item); err != nil {
			log.Warn("skipping malformed record", "key", key)
			continue
		}
		items = append(items, item)
	}
	return items
}

func writeCollection[T any](ctx context.Context, store storage.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw)
}

// readDocument loads a single JSON object; ok is false when the key is absent
func readDocument[T any](ctx context.Context, store storage.Store, log *logger.Logger, key string, out *T) bool {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false
	}
	if err != nil {
		log.Error(err, "storage read failed", "key", key)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Error(err, "document decode failed", "key", key)
		return false
	}
	return true
}

func writeDocument[T any](ctx context.Context, store storage.Store, key string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw)
}
