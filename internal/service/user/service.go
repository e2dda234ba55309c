package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/service/notification"
	"github.com/zerofoodhero/api/pkg/auth"
	apperrors "github.com/zerofoodhero/api/pkg/errors"
	"github.com/zerofoodhero/api/pkg/logger"
)

const (
	bcryptCost         = 12
	maxActivityEntries = 100
)

// Service manages accounts and sessions
type Service interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*auth.TokenPair, *model.User, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Get(ctx context.Context, id string) (*model.User, error)
	SwitchRole(ctx context.Context, id string, role model.Role) (*model.User, error)
	RecordActivity(ctx context.Context, id, action, detail string) error
	List(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     repository.UserRepository
	jwtSvc   auth.JWTService
	notifier notification.Service
	log      *logger.Logger
}

func NewService(repo repository.UserRepository, jwtSvc auth.JWTService, notifier notification.Service, log *logger.Logger) Service {
	return &service{repo: repo, jwtSvc: jwtSvc, notifier: notifier, log: log}
}

// Register creates an account. Emails are unique case-insensitively;
// passwords are stored as bcrypt hashes only.
func (s *service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, apperrors.BadRequest("role must be donor, volunteer or ngo", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.Conflict("an account with this email already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &model.User{
		ID:           model.NewID(),
		Email:        email,
		Name:         req.Name,
		Role:         req.Role,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: string(hash),
		Activity: []model.ActivityEntry{
			{Action: "signup", Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Add(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.notifier.Notify(ctx, u.ID, model.NotificationSystem,
		"Welcome to Zero Food Hero", "Your account is ready.", "", nil); err != nil {
		s.log.Error(err, "welcome notification failed", "user_id", u.ID)
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*auth.TokenPair, *model.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	tokens, err := s.jwtSvc.GenerateTokenPair(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.RecordActivity(ctx, u.ID, "login", ""); err != nil {
		s.log.Error(err, "activity log failed", "user_id", u.ID)
	}

	return tokens, u, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("account no longer exists"))
	}

	tokens, err := s.jwtSvc.GenerateTokenPair(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokens, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	return u, nil
}

// SwitchRole changes the account's active role; the next issued token pair
// carries the new role.
func (s *service) SwitchRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperrors.BadRequest("role must be donor, volunteer or ngo", nil)
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Role = role
	u.Activity = appendActivity(u.Activity, model.ActivityEntry{
		Action:    "switch_role",
		Detail:    string(role),
		Timestamp: time.Now(),
	})
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

func (s *service) RecordActivity(ctx context.Context, id, action, detail string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	u.Activity = appendActivity(u.Activity, model.ActivityEntry{
		Action:    action,
		Detail:    detail,
		Timestamp: time.Now(),
	})
	if err := s.repo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func appendActivity(log []model.ActivityEntry, entry model.ActivityEntry) []model.ActivityEntry {
	log = append(log, entry)
	if len(log) > maxActivityEntries {
		log = log[len(log)-maxActivityEntries:]
	}
	return log
}

func (s *service) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
