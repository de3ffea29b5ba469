package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"chartdeck/internal/authz"
	"chartdeck/internal/charting"
	"chartdeck/internal/dataset"
	"chartdeck/internal/errors"
	"chartdeck/internal/model"
	"chartdeck/internal/repository"
	"chartdeck/internal/storage"
)

// ChartRenderer draws a chart for a dataset. *charting.Renderer implements it.
type ChartRenderer interface {
	Render(ctx context.Context, ds *dataset.Dataset, chartType string, sel charting.ColumnSelection) (*charting.Result, error)
}

// CreateChartInput describes a chart to render from an uploaded dataset and
// save into a project.
type CreateChartInput struct {
	Title       string
	Description *string
	DatasetID   string
	ChartType   string
	Columns     charting.ColumnSelection
	// OrderIndex defaults to the end of the project.
	OrderIndex *int
}

// chartConfig is stored in Chart.Config.
type chartConfig struct {
	ChartType string                   `json:"chart_type"`
	Columns   charting.ColumnSelection `json:"columns"`
}

// ChartService handles charts inside projects. Every access is checked by
// the ownership guard.
type ChartService interface {
	// Create renders the chart and stores it. When the request is rejected
	// the chart is nil and the result carries the rejection.
	Create(ctx context.Context, identityID, projectID uint, in CreateChartInput) (*model.Chart, *charting.Result, error)
	Get(ctx context.Context, identityID, chartID uint) (*model.Chart, error)
	List(ctx context.Context, identityID, projectID uint) ([]model.Chart, error)
	Update(ctx context.Context, identityID, chartID uint, upd model.ChartUpdate) (*model.Chart, error)
	Delete(ctx context.Context, identityID, chartID uint) error
	// Reorder sets new order indices for charts of one project and returns
	// how many were applied. Charts of other projects are skipped.
	Reorder(ctx context.Context, identityID, projectID uint, orders []model.ChartOrder) (int, error)
	// Image returns the stored PNG of a chart.
	Image(ctx context.Context, identityID, chartID uint) ([]byte, error)
}

type chartService struct {
	charts    repository.ChartRepository
	guard     *authz.Guard
	datasets  dataset.Store
	renderer  ChartRenderer
	artifacts storage.Store
	logger    *slog.Logger
}

// NewChartService creates a new chart service.
func NewChartService(
	charts repository.ChartRepository,
	guard *authz.Guard,
	datasets dataset.Store,
	renderer ChartRenderer,
	artifacts storage.Store,
	logger *slog.Logger,
) ChartService {
	return &chartService{
		charts:    charts,
		guard:     guard,
		datasets:  datasets,
		renderer:  renderer,
		artifacts: artifacts,
		logger:    logger,
	}
}

func (s *chartService) Create(ctx context.Context, identityID, projectID uint, in CreateChartInput) (*model.Chart, *charting.Result, error) {
	if _, err := s.guard.AuthorizeProject(ctx, identityID, projectID, authz.Write); err != nil {
		return nil, nil, err
	}
	ds, err := s.datasets.Get(ctx, identityID, in.DatasetID)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.renderer.Render(ctx, ds, in.ChartType, in.Columns)
	if err != nil {
		return nil, nil, err
	}
	if res.Rejected() {
		return nil, res, nil
	}

	config, err := json.Marshal(chartConfig{ChartType: string(res.Plan.Type), Columns: in.Columns})
	if err != nil {
		return nil, nil, fmt.Errorf("encode chart config: %w", err)
	}

	order := 0
	if in.OrderIndex != nil {
		order = *in.OrderIndex
	} else {
		existing, err := s.charts.ListByProject(ctx, projectID)
		if err != nil {
			return nil, nil, fmt.Errorf("list charts: %w", err)
		}
		order = len(existing)
	}

	chart := &model.Chart{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		ImagePath:   res.ArtifactKey,
		ChartType:   string(res.Plan.Type),
		Config:      datatypes.JSON(config),
		OrderIndex:  order,
	}
	if err := s.charts.Create(ctx, chart); err != nil {
		removeArtifacts(ctx, s.artifacts, s.logger, []string{res.ArtifactKey})
		return nil, nil, fmt.Errorf("create chart: %w", err)
	}
	return chart, res, nil
}

func (s *chartService) Get(ctx context.Context, identityID, chartID uint) (*model.Chart, error) {
	return s.guard.AuthorizeChart(ctx, identityID, chartID, authz.Read)
}

func (s *chartService) List(ctx context.Context, identityID, projectID uint) ([]model.Chart, error) {
	if _, err := s.guard.AuthorizeProject(ctx, identityID, projectID, authz.Read); err != nil {
		return nil, err
	}
	charts, err := s.charts.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list charts: %w", err)
	}
	if charts == nil {
		charts = []model.Chart{}
	}
	return charts, nil
}

func (s *chartService) Update(ctx context.Context, identityID, chartID uint, upd model.ChartUpdate) (*model.Chart, error) {
	chart, err := s.guard.AuthorizeChart(ctx, identityID, chartID, authz.Write)
	if err != nil {
		return nil, err
	}
	if !upd.Apply(chart) {
		return chart, nil
	}
	if err := s.charts.Update(ctx, chart); err != nil {
		return nil, fmt.Errorf("update chart: %w", err)
	}
	return chart, nil
}

func (s *chartService) Delete(ctx context.Context, identityID, chartID uint) error {
	chart, err := s.guard.AuthorizeChart(ctx, identityID, chartID, authz.Write)
	if err != nil {
		return err
	}
	if err := s.charts.Delete(ctx, chartID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrChartNotFound
		}
		return fmt.Errorf("delete chart: %w", err)
	}
	removeArtifacts(ctx, s.artifacts, s.logger, []string{chart.ImagePath})
	return nil
}

func (s *chartService) Reorder(ctx context.Context, identityID, projectID uint, orders []model.ChartOrder) (int, error) {
	if _, err := s.guard.AuthorizeProject(ctx, identityID, projectID, authz.Write); err != nil {
		return 0, err
	}

	// TODO: run the batch in one transaction; a failure half way leaves the
	// earlier moves applied.
	applied := 0
	for _, o := range orders {
		ok, err := s.charts.SetOrderIndex(ctx, projectID, o.ChartID, o.OrderIndex)
		if err != nil {
			return applied, fmt.Errorf("move chart %d: %w", o.ChartID, err)
		}
		if !ok {
			s.logger.DebugContext(ctx, "reorder skipped chart outside project", "project_id", projectID, "chart_id", o.ChartID)
			continue
		}
		applied++
	}
	return applied, nil
}

func (s *chartService) Image(ctx context.Context, identityID, chartID uint) ([]byte, error) {
	chart, err := s.guard.AuthorizeChart(ctx, identityID, chartID, authz.Read)
	if err != nil {
		return nil, err
	}
	return s.artifacts.Get(ctx, chart.ImagePath)
}
