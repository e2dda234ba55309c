package kv

import (
	"context"
	"fmt"
	"sync"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/pkg/logger"
)

type settingsRepository struct {
	store storage.Store
	log   *logger.Logger
	mu    sync.Mutex
}

func NewSettingsRepository(store storage.Store, log *logger.Logger) repository.SettingsRepository {
	return &settingsRepository{store: store, log: log}
}

// Get returns the stored document, or the documented defaults when none
// exists yet.
func (r *settingsRepository) Get(ctx context.Context, userID string) (*model.Settings, error) {
	settings := model.DefaultSettings()
	readDocument(ctx, r.store, r.log, keySettingsPrefix+userID, &settings)
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, userID string, s *model.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeDocument(ctx, r.store, keySettingsPrefix+userID, s); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

type locationRepository struct {
	store storage.Store
	log   *logger.Logger
	mu    sync.Mutex
}

func NewLocationRepository(store storage.Store, log *logger.Logger) repository.LocationRepository {
	return &locationRepository{store: store, log: log}
}

func (r *locationRepository) key(userID string, role model.Role) string {
	return keyLocationPrefix + string(role) + "_" + userID
}

func (r *locationRepository) Get(ctx context.Context, userID string, role model.Role) (*model.Location, error) {
	var loc model.Location
	if !readDocument(ctx, r.store, r.log, r.key(userID, role), &loc) {
		return nil, fmt.Errorf("location for %s: %w", userID, storage.ErrKeyNotFound)
	}
	return &loc, nil
}

func (r *locationRepository) Save(ctx context.Context, userID string, role model.Role, loc *model.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeDocument(ctx, r.store, r.key(userID, role), loc); err != nil {
		return fmt.Errorf("failed to persist location: %w", err)
	}
	return nil
}
