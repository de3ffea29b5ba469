package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"chartdeck/internal/cache"
	"chartdeck/internal/errors"
	"chartdeck/internal/model"
	"chartdeck/internal/repository"
	"chartdeck/internal/storage"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes the account of the current user.
type UserService interface {
	// GetMe returns the user with profile and settings.
	GetMe(ctx context.Context, userID uint) (*model.User, error)
	GetProfile(ctx context.Context, userID uint) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID uint, upd model.ProfileUpdate) (*model.Profile, error)
	GetSettings(ctx context.Context, userID uint) (*model.Settings, error)
	UpdateSettings(ctx context.Context, userID uint, upd model.SettingsUpdate) (*model.Settings, error)
	// DeleteAccount removes the user, its projects and charts, then their
	// stored files.
	DeleteAccount(ctx context.Context, userID uint) error
}

type userService struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	settings  repository.SettingsRepository
	projects  repository.ProjectRepository
	charts    repository.ChartRepository
	artifacts storage.Store
	cache     *cache.Client
	logger    *slog.Logger
}

// NewUserService builds a UserService.
func NewUserService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	settings repository.SettingsRepository,
	projects repository.ProjectRepository,
	charts repository.ChartRepository,
	artifacts storage.Store,
	cache *cache.Client,
	logger *slog.Logger,
) UserService {
	return &userService{
		users:     users,
		profiles:  profiles,
		settings:  settings,
		projects:  projects,
		charts:    charts,
		artifacts: artifacts,
		cache:     cache,
		logger:    logger,
	}
}

func (s *userService) GetMe(ctx context.Context, userID uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, cache.UserKey(userID), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindWithRelations(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	s.cache.SetJSON(ctx, cache.UserKey(userID), user, userCacheTTL)
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (*model.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, upd model.ProfileUpdate) (*model.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	if !upd.Apply(profile) {
		return profile, nil
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.cache.Delete(ctx, cache.UserKey(userID))
	return profile, nil
}

func (s *userService) GetSettings(ctx context.Context, userID uint) (*model.Settings, error) {
	settings, err := s.settings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	return settings, nil
}

func (s *userService) UpdateSettings(ctx context.Context, userID uint, upd model.SettingsUpdate) (*model.Settings, error) {
	settings, err := s.settings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	if !upd.Apply(settings) {
		return settings, nil
	}
	if err := s.settings.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	s.cache.Delete(ctx, cache.UserKey(userID))
	return settings, nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID uint) error {
	images, err := s.charts.ImagePathsByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list chart images: %w", err)
	}
	sources, err := s.projects.SourcePathsByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list source files: %w", err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return userErr(err)
	}
	s.cache.Delete(ctx, cache.UserKey(userID))

	removeArtifacts(ctx, s.artifacts, s.logger, append(images, s.orphanedUploads(ctx, userID, sources)...))
	return nil
}

// orphanedUploads keeps the source files uploaded by userID that no remaining
// project names.
func (s *userService) orphanedUploads(ctx context.Context, userID uint, sources []string) []string {
	own := make([]string, 0, len(sources))
	for _, key := range sources {
		if storage.IsUploadOf(userID, key) {
			own = append(own, key)
		}
	}
	if len(own) == 0 {
		return nil
	}
	used, err := s.projects.SourcePathsInUse(ctx, own)
	if err != nil {
		s.logger.WarnContext(ctx, "source file cleanup skipped", "user_id", userID, "error", err)
		return nil
	}
	inUse := make(map[string]struct{}, len(used))
	for _, key := range used {
		inUse[key] = struct{}{}
	}
	orphaned := make([]string, 0, len(own))
	for _, key := range own {
		if _, ok := inUse[key]; !ok {
			orphaned = append(orphaned, key)
		}
	}
	return orphaned
}

func userErr(err error) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.ErrUserNotFound
	}
	return err
}

// removeArtifacts deletes stored files after their rows are gone. Failures
// are logged and do not fail the request.
func removeArtifacts(ctx context.Context, store storage.Store, logger *slog.Logger, keys []string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		err := store.Delete(ctx, key)
		if err != nil && !stderrors.Is(err, errors.ErrArtifactNotFound) {
			logger.WarnContext(ctx, "artifact cleanup failed", "key", key, "error", err)
		}
	}
}
