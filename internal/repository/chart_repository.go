package repository

import (
	"context"

	"gorm.io/gorm"

	"chartdeck/internal/model"
)

// ChartRepository defines chart persistence operations.
type ChartRepository interface {
	Create(ctx context.Context, chart *model.Chart) error
	Update(ctx context.Context, chart *model.Chart) error
	Delete(ctx context.Context, id uint) error
	// FindByID loads a chart with its parent project.
	FindByID(ctx context.Context, id uint) (*model.Chart, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Chart, error)
	// SetOrderIndex moves a chart of the given project and reports whether a
	// row was updated.
	SetOrderIndex(ctx context.Context, projectID, chartID uint, orderIndex int) (bool, error)
	ImagePathsByProject(ctx context.Context, projectID uint) ([]string, error)
	ImagePathsByOwner(ctx context.Context, ownerID uint) ([]string, error)
}

type chartRepository struct {
	db *gorm.DB
}

// NewChartRepository creates a new chart repository.
func NewChartRepository(db *gorm.DB) ChartRepository {
	return &chartRepository{db: db}
}

// Create creates a new chart.
func (r *chartRepository) Create(ctx context.Context, chart *model.Chart) error {
	return r.db.WithContext(ctx).Omit("Project").Create(chart).Error
}

// Update saves an existing chart.
func (r *chartRepository) Update(ctx context.Context, chart *model.Chart) error {
	return r.db.WithContext(ctx).Omit("Project").Save(chart).Error
}

// Delete removes a chart.
func (r *chartRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Chart{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *chartRepository) FindByID(ctx context.Context, id uint) (*model.Chart, error) {
	var chart model.Chart
	if err := r.db.WithContext(ctx).Preload("Project").First(&chart, id).Error; err != nil {
		return nil, err
	}
	return &chart, nil
}

// ListByProject lists charts ordered by order index, then creation time.
func (r *chartRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Chart, error) {
	var charts []model.Chart
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order(chartOrder).Find(&charts).Error; err != nil {
		return nil, err
	}
	return charts, nil
}

func (r *chartRepository) SetOrderIndex(ctx context.Context, projectID, chartID uint, orderIndex int) (bool, error) {
	// RowsAffected cannot be used for existence: MySQL reports 0 when the
	// index is already the requested one.
	var count int64
	scoped := r.db.WithContext(ctx).Model(&model.Chart{}).Where("id = ? AND project_id = ?", chartID, projectID)
	if err := scoped.Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	err := r.db.WithContext(ctx).Model(&model.Chart{}).
		Where("id = ? AND project_id = ?", chartID, projectID).
		Update("order_index", orderIndex).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *chartRepository) ImagePathsByProject(ctx context.Context, projectID uint) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&model.Chart{}).
		Where("project_id = ?", projectID).
		Pluck("image_path", &paths).Error
	return paths, err
}

func (r *chartRepository) ImagePathsByOwner(ctx context.Context, ownerID uint) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&model.Chart{}).
		Joins("JOIN projects ON projects.id = charts.project_id").
		Where("projects.user_id = ?", ownerID).
		Pluck("charts.image_path", &paths).Error
	return paths, err
}
