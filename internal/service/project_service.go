package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"chartdeck/internal/authz"
	"chartdeck/internal/errors"
	"chartdeck/internal/model"
	"chartdeck/internal/repository"
	"chartdeck/internal/storage"
)

// Listing limits.
const (
	DefaultPageSize = 100
	MaxPageSize     = 100
)

// Page selects a window of a listing.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// CreateProjectInput carries the fields of a new project.
type CreateProjectInput struct {
	Title          string
	Description    *string
	SourceFilePath string
	IsPublic       bool
}

// ProjectService handles project operations. Every access to an existing
// project is checked by the ownership guard.
type ProjectService interface {
	// Create stores a new project. The source file must be an upload of
	// the owner.
	Create(ctx context.Context, ownerID uint, in CreateProjectInput) (*model.Project, error)
	// Get returns the project with its charts in display order.
	Get(ctx context.Context, identityID, projectID uint) (*model.Project, error)
	ListOwn(ctx context.Context, ownerID uint, page Page) ([]model.ProjectSummary, error)
	ListPublic(ctx context.Context, page Page) ([]model.ProjectSummary, error)
	Update(ctx context.Context, identityID, projectID uint, upd model.ProjectUpdate) (*model.Project, error)
	Delete(ctx context.Context, identityID, projectID uint) error
}

type projectService struct {
	projects  repository.ProjectRepository
	charts    repository.ChartRepository
	guard     *authz.Guard
	artifacts storage.Store
	logger    *slog.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(
	projects repository.ProjectRepository,
	charts repository.ChartRepository,
	guard *authz.Guard,
	artifacts storage.Store,
	logger *slog.Logger,
) ProjectService {
	return &projectService{
		projects:  projects,
		charts:    charts,
		guard:     guard,
		artifacts: artifacts,
		logger:    logger,
	}
}

func (s *projectService) Create(ctx context.Context, ownerID uint, in CreateProjectInput) (*model.Project, error) {
	if !storage.IsUploadOf(ownerID, in.SourceFilePath) {
		return nil, errors.ErrInvalidSourceFile
	}
	project := &model.Project{
		UserID:         ownerID,
		Title:          in.Title,
		Description:    in.Description,
		SourceFilePath: in.SourceFilePath,
		IsPublic:       in.IsPublic,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	project.Charts = []model.Chart{}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, identityID, projectID uint) (*model.Project, error) {
	if _, err := s.guard.AuthorizeProject(ctx, identityID, projectID, authz.Read); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByIDWithCharts(ctx, projectID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("load project charts: %w", err)
	}
	if project.Charts == nil {
		project.Charts = []model.Chart{}
	}
	return project, nil
}

func (s *projectService) ListOwn(ctx context.Context, ownerID uint, page Page) ([]model.ProjectSummary, error) {
	page = page.normalize()
	return s.projects.ListByOwner(ctx, ownerID, page.Offset, page.Limit)
}

func (s *projectService) ListPublic(ctx context.Context, page Page) ([]model.ProjectSummary, error) {
	page = page.normalize()
	return s.projects.ListPublic(ctx, page.Offset, page.Limit)
}

func (s *projectService) Update(ctx context.Context, identityID, projectID uint, upd model.ProjectUpdate) (*model.Project, error) {
	project, err := s.guard.AuthorizeProject(ctx, identityID, projectID, authz.Write)
	if err != nil {
		return nil, err
	}
	if !upd.Apply(project) {
		return project, nil
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// Delete removes the project and its charts. The source file stays, other
// projects may have been created from the same upload.
func (s *projectService) Delete(ctx context.Context, identityID, projectID uint) error {
	if _, err := s.guard.AuthorizeProject(ctx, identityID, projectID, authz.Write); err != nil {
		return err
	}
	images, err := s.charts.ImagePathsByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list chart images: %w", err)
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrProjectNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}
	removeArtifacts(ctx, s.artifacts, s.logger, images)
	return nil
}
