package kv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/pkg/logger"
)

type orderRepository struct {
	store storage.Store
	log   *logger.Logger
	mu    sync.Mutex
}

func NewOrderRepository(store storage.Store, log *logger.Logger) repository.OrderRepository {
	return &orderRepository{store: store, log: log}
}

func (r *orderRepository) load(ctx context.Context) []*model.Order {
	orders := readCollection[*model.Order](ctx, r.store, r.log, keyOrders)
	now := time.Now()
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
	}
	return orders
}

func (r *orderRepository) List(ctx context.Context) ([]*model.Order, error) {
	return r.load(ctx), nil
}

func (r *orderRepository) Add(ctx context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.load(ctx)
	orders = append([]*model.Order{o}, orders...)
	if err := writeCollection(ctx, r.store, keyOrders, orders); err != nil {
		return fmt.Errorf("failed to persist orders: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	for _, o := range r.load(ctx) {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, storage.ErrKeyNotFound)
}

func (r *orderRepository) GetByNGO(ctx context.Context, ngoID string) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range r.load(ctx) {
		if o.NGOID == ngoID {
			out = append(out, o)
		}
	}
	return out, nil
}
