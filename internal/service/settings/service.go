package settings

import (
	"context"
	"fmt"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	apperrors "github.com/zerofoodhero/api/pkg/errors"
)

// Service reads and writes per-user preferences and remembered locations
type Service interface {
	Get(ctx context.Context, userID string) (*model.Settings, error)
	Update(ctx context.Context, userID string, s *model.Settings) (*model.Settings, error)
	Location(ctx context.Context, userID string, role model.Role) (*model.Location, error)
	SaveLocation(ctx context.Context, userID string, role model.Role, loc *model.Location) error
}

type service struct {
	repo    repository.SettingsRepository
	locRepo repository.LocationRepository
}

func NewService(repo repository.SettingsRepository, locRepo repository.LocationRepository) Service {
	return &service{repo: repo, locRepo: locRepo}
}

func (s *service) Get(ctx context.Context, userID string) (*model.Settings, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, settings *model.Settings) (*model.Settings, error) {
	if err := s.repo.Save(ctx, userID, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}

func (s *service) Location(ctx context.Context, userID string, role model.Role) (*model.Location, error) {
	loc, err := s.locRepo.Get(ctx, userID, role)
	if err != nil {
		return nil, apperrors.NotFound("location", err)
	}
	return loc, nil
}

func (s *service) SaveLocation(ctx context.Context, userID string, role model.Role, loc *model.Location) error {
	if err := s.locRepo.Save(ctx, userID, role, loc); err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	return nil
}
