package kv

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/pkg/logger"
)

type userRepository struct {
	store storage.Store
	log   *logger.Logger
	mu    sync.Mutex
}

func NewUserRepository(store storage.Store, log *logger.Logger) repository.UserRepository {
	return &userRepository{store: store, log: log}
}

func (r *userRepository) load(ctx context.Context) []*model.User {
	users := readCollection[*model.User](ctx, r.store, r.log, keyUsers)
	now := time.Now()
	for _, u := range users {
		if u.CreatedAt.IsZero() {
			u.CreatedAt = now
		}
		if u.UpdatedAt.IsZero() {
			u.UpdatedAt = u.CreatedAt
		}
	}
	return users
}

func (r *userRepository) persist(ctx context.Context, users []*model.User) error {
	if err := writeCollection(ctx, r.store, keyUsers, users); err != nil {
		return fmt.Errorf("failed to persist users: %w", err)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	return r.load(ctx), nil
}

func (r *userRepository) Add(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.load(ctx)
	users = append([]*model.User{u}, users...)
	return r.persist(ctx, users)
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.load(ctx)
	for i, existing := range users {
		if existing.ID == u.ID {
			u.UpdatedAt = time.Now()
			users[i] = u
			return r.persist(ctx, users)
		}
	}
	return fmt.Errorf("user %s: %w", u.ID, storage.ErrKeyNotFound)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.load(ctx)
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	return r.persist(ctx, kept)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range r.load(ctx) {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, storage.ErrKeyNotFound)
}

// GetByEmail matches case-insensitively, the same rule used for the
// duplicate check at signup.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	needle := strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.load(ctx) {
		if strings.ToLower(u.Email) == needle {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, storage.ErrKeyNotFound)
}
