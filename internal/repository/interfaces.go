package repository

import (
	"context"

	"github.com/zerofoodhero/api/internal/model"
)

// DonationWithDistance pairs a donation with its distance from a query point
type DonationWithDistance struct {
	*model.Donation
	DistanceKm float64 `json:"distance_km"`
}

// DonationRepository persists the donations collection. List reconciles
// before reading, so every full read observes swept expiry state.
type DonationRepository interface {
	List(ctx context.Context) ([]*model.Donation, error)
	Reconcile(ctx context.Context) (int, error)
	Add(ctx context.Context, d *model.Donation) error
	Update(ctx context.Context, id string, patch *model.DonationPatch) (*model.Donation, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Donation, error)
	GetByStatus(ctx context.Context, status model.DonationStatus) ([]*model.Donation, error)
	GetByDonor(ctx context.Context, donorID string) ([]*model.Donation, error)
	GetByVolunteer(ctx context.Context, volunteerID string) ([]*model.Donation, error)
	GetByNGO(ctx context.Context, ngoID string) ([]*model.Donation, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64, address string) ([]*DonationWithDistance, error)
}

// UserRepository persists the users collection
type UserRepository interface {
	List(ctx context.Context) ([]*model.User, error)
	Add(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// GamificationRepository persists one stats record per user id
type GamificationRepository interface {
	Get(ctx context.Context, userID string) (*model.GamificationStats, error)
	Save(ctx context.Context, stats *model.GamificationStats) error
	Delete(ctx context.Context, userID string) error
	All(ctx context.Context) ([]*model.GamificationStats, error)
}

// OrderRepository persists the NGO orders collection
type OrderRepository interface {
	List(ctx context.Context) ([]*model.Order, error)
	Add(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByNGO(ctx context.Context, ngoID string) ([]*model.Order, error)
}

// NotificationRepository persists per-user notification feeds capped at
// model.MaxNotifications, most recent first.
type NotificationRepository interface {
	List(ctx context.Context, userID string) ([]*model.Notification, error)
	Push(ctx context.Context, n *model.Notification) error
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Remove(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) error
}

// SettingsRepository persists per-user preference documents
type SettingsRepository interface {
	Get(ctx context.Context, userID string) (*model.Settings, error)
	Save(ctx context.Context, userID string, s *model.Settings) error
}

// LocationRepository persists the last geocoded location per user and role
type LocationRepository interface {
	Get(ctx context.Context, userID string, role model.Role) (*model.Location, error)
	Save(ctx context.Context, userID string, role model.Role, loc *model.Location) error
}
