package kv

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/pkg/logger"
)

type gamificationRepository struct {
	store storage.Store
	log   *logger.Logger
	mu    sync.Mutex
}

func NewGamificationRepository(store storage.Store, log *logger.Logger) repository.GamificationRepository {
	return &gamificationRepository{store: store, log: log}
}

// Get lazily creates zero state the first time a user id is read
func (r *gamificationRepository) Get(ctx context.Context, userID string) (*model.GamificationStats, error) {
	var stats model.GamificationStats
	if readDocument(ctx, r.store, r.log, keyGamificationPrefix+userID, &stats) {
		return &stats, nil
	}
	return &model.GamificationStats{UserID: userID, Level: 1}, nil
}

func (r *gamificationRepository) Save(ctx context.Context, stats *model.GamificationStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeDocument(ctx, r.store, keyGamificationPrefix+stats.UserID, stats); err != nil {
		return fmt.Errorf("failed to persist gamification stats: %w", err)
	}
	return nil
}

func (r *gamificationRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, keyGamificationPrefix+userID)
}

func (r *gamificationRepository) All(ctx context.Context) ([]*model.GamificationStats, error) {
	keys, err := r.store.Keys(ctx, keyGamificationPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list gamification keys: %w", err)
	}

	out := make([]*model.GamificationStats, 0, len(keys))
	for _, key := range keys {
		userID := strings.TrimPrefix(key, keyGamificationPrefix)
		var stats model.GamificationStats
		if readDocument(ctx, r.store, r.log, key, &stats) {
			if stats.UserID == "" {
				stats.UserID = userID
			}
			out = append(out, &stats)
		}
	}
	return out, nil
}
