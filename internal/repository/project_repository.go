package repository

import (
	"context"

	"gorm.io/gorm"

	"chartdeck/internal/model"
)

// chartOrder is the display order of charts inside a project.
const chartOrder = "order_index ASC, created_at ASC, id ASC"

// ProjectRepository defines project persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id uint) (*model.Project, error)
	FindByIDWithCharts(ctx context.Context, id uint) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]model.ProjectSummary, error)
	ListPublic(ctx context.Context, offset, limit int) ([]model.ProjectSummary, error)
	// SourcePathsByOwner returns the distinct source file keys of a user's projects.
	SourcePathsByOwner(ctx context.Context, ownerID uint) ([]string, error)
	// SourcePathsInUse returns the subset of paths still named by a project.
	SourcePathsInUse(ctx context.Context, paths []string) ([]string, error)
	// Delete removes the project and its charts in one transaction.
	Delete(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create creates a new project.
func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update saves an existing project. Charts are not touched.
func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit("Charts").Save(project).Error
}

// FindByID finds a project by ID.
func (r *projectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDWithCharts finds a project with its charts in display order.
func (r *projectRepository) FindByIDWithCharts(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Charts", func(db *gorm.DB) *gorm.DB { return db.Order(chartOrder) }).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOwner lists the projects of one user, newest first.
func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]model.ProjectSummary, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", ownerID), offset, limit)
}

// ListPublic lists public projects, newest first.
func (r *projectRepository) ListPublic(ctx context.Context, offset, limit int) ([]model.ProjectSummary, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("is_public = ?", true), offset, limit)
}

func (r *projectRepository) list(ctx context.Context, query *gorm.DB, offset, limit int) ([]model.ProjectSummary, error) {
	var projects []model.Project
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&projects).Error; err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return []model.ProjectSummary{}, nil
	}

	ids := make([]uint, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	var counts []struct {
		ProjectID uint
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&model.Chart{}).
		Select("project_id, COUNT(*) AS total").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byProject := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byProject[c.ProjectID] = c.Total
	}

	summaries := make([]model.ProjectSummary, len(projects))
	for i, p := range projects {
		summaries[i] = model.ProjectSummary{Project: p, ChartsCount: byProject[p.ID]}
	}
	return summaries, nil
}

func (r *projectRepository) SourcePathsByOwner(ctx context.Context, ownerID uint) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("user_id = ? AND source_file_path <> ''", ownerID).
		Distinct().
		Pluck("source_file_path", &paths).Error
	return paths, err
}

func (r *projectRepository) SourcePathsInUse(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return []string{}, nil
	}
	var used []string
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("source_file_path IN ?", paths).
		Distinct().
		Pluck("source_file_path", &used).Error
	return used, err
}

// Delete removes the charts of the project first, then the project itself.
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.Chart{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
