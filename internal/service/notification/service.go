package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/zerofoodhero/api/internal/email"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/pkg/logger"
)

// Service delivers notifications to users across the enabled channels. The
// in-app feed is the primary channel; email goes out asynchronously when the
// user has opted in.
type Service interface {
	Notify(ctx context.Context, userID string, typ model.NotificationType, title, message, link string, payload model.JSONMap) error
	List(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Remove(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) error
}

type service struct {
	repo         repository.NotificationRepository
	settingsRepo repository.SettingsRepository
	userRepo     repository.UserRepository
	emailSvc     email.Service
	log          *logger.Logger
}

func NewService(
	repo repository.NotificationRepository,
	settingsRepo repository.SettingsRepository,
	userRepo repository.UserRepository,
	emailSvc email.Service,
	log *logger.Logger,
) Service {
	return &service{
		repo:         repo,
		settingsRepo: settingsRepo,
		userRepo:     userRepo,
		emailSvc:     emailSvc,
		log:          log,
	}
}

func (s *service) Notify(ctx context.Context, userID string, typ model.NotificationType, title, message, link string, payload model.JSONMap) error {
	prefs, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if !typeEnabled(prefs.Notifications, typ) {
		return nil
	}

	if prefs.Notifications.InApp {
		n := &model.Notification{
			ID:        model.NewID(),
			UserID:    userID,
			Type:      typ,
			Title:     title,
			Message:   message,
			Link:      link,
			Payload:   payload,
			CreatedAt: time.Now(),
		}
		if err := s.repo.Push(ctx, n); err != nil {
			return fmt.Errorf("failed to push notification: %w", err)
		}
	}

	if prefs.Notifications.Email {
		go s.sendEmail(userID, title, message)
	}

	return nil
}

func (s *service) sendEmail(userID, subject, body string) {
	ctx := context.Background()
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn("email skipped, user not found", "user_id", userID)
		return
	}
	if err := s.emailSvc.Send(ctx, user.Email, subject, body); err != nil {
		s.log.Error(err, "email delivery failed", "user_id", userID)
	}
}

func typeEnabled(prefs model.NotificationSettings, typ model.NotificationType) bool {
	switch typ {
	case model.NotificationDonation:
		return prefs.Donations
	case model.NotificationPickup:
		return prefs.Pickups
	case model.NotificationDelivery:
		return prefs.Deliveries
	case model.NotificationAchievement:
		return prefs.Achievements
	default:
		// system notifications can't be muted
		return true
	}
}

func (s *service) List(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.repo.List(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, id string) error {
	return s.repo.Remove(ctx, userID, id)
}

func (s *service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
