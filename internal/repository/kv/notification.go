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

type notificationRepository struct {
	store storage.Store
	log   *logger.Logger
	mu    sync.Mutex
}

func NewNotificationRepository(store storage.Store, log *logger.Logger) repository.NotificationRepository {
	return &notificationRepository{store: store, log: log}
}

func (r *notificationRepository) key(userID string) string {
	return keyNotificationPrefix + userID
}

func (r *notificationRepository) List(ctx context.Context, userID string) ([]*model.Notification, error) {
	return readCollection[*model.Notification](ctx, r.store, r.log, r.key(userID)), nil
}

// Push prepends and trims the feed to the newest MaxNotifications entries
func (r *notificationRepository) Push(ctx context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	feed := readCollection[*model.Notification](ctx, r.store, r.log, r.key(n.UserID))
	feed = append([]*model.Notification{n}, feed...)
	if len(feed) > model.MaxNotifications {
		feed = feed[:model.MaxNotifications]
	}
	if err := writeCollection(ctx, r.store, r.key(n.UserID), feed); err != nil {
		return fmt.Errorf("failed to persist notifications: %w", err)
	}
	return nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	return r.mutate(ctx, userID, func(feed []*model.Notification) []*model.Notification {
		for _, n := range feed {
			if n.ID == id {
				n.Read = true
			}
		}
		return feed
	})
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.mutate(ctx, userID, func(feed []*model.Notification) []*model.Notification {
		for _, n := range feed {
			n.Read = true
		}
		return feed
	})
}

func (r *notificationRepository) Remove(ctx context.Context, userID, id string) error {
	return r.mutate(ctx, userID, func(feed []*model.Notification) []*model.Notification {
		kept := feed[:0]
		for _, n := range feed {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		return kept
	})
}

func (r *notificationRepository) Clear(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, r.key(userID))
}

func (r *notificationRepository) mutate(ctx context.Context, userID string, fn func([]*model.Notification) []*model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	feed := readCollection[*model.Notification](ctx, r.store, r.log, r.key(userID))
	feed = fn(feed)
	if err := writeCollection(ctx, r.store, r.key(userID), feed); err != nil {
		return fmt.Errorf("failed to persist notifications: %w", err)
	}
	return nil
}
