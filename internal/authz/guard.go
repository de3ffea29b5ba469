// Package authz decides whether an identity may read or modify a project or
// chart. Every project and chart access in the service layer goes through Guard.
package authz

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"chartdeck/internal/errors"
	"chartdeck/internal/model"
)

// Mode is the kind of access requested.
type Mode int

const (
	// Read allows the owner, or anyone when the project is public.
	Read Mode = iota
	// Write allows the owner only.
	Write
)

func (m Mode) String() string {
	if m == Write {
		return "write"
	}
	return "read"
}

// Anonymous is the identity used for unauthenticated callers. No user has ID 0.
const Anonymous uint = 0

// ProjectFinder loads projects by id.
type ProjectFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Project, error)
}

// ChartFinder loads charts by id, with their parent project when available.
type ChartFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Chart, error)
}

// Guard applies the ownership rules.
//
// Unauthorized reads are reported as not found so private projects do not
// leak through read endpoints. Unauthorized writes are always forbidden.
type Guard struct {
	projects ProjectFinder
	charts   ChartFinder
}

// NewGuard creates a guard backed by the given finders.
func NewGuard(projects ProjectFinder, charts ChartFinder) *Guard {
	return &Guard{projects: projects, charts: charts}
}

// AuthorizeProject returns the project when identityID may access it in mode.
func (g *Guard) AuthorizeProject(ctx context.Context, identityID, projectID uint, mode Mode) (*model.Project, error) {
	project, err := g.projects.FindByID(ctx, projectID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("load project %d: %w", projectID, err)
	}
	if err := decide(identityID, project, mode, errors.ErrProjectNotFound); err != nil {
		return nil, err
	}
	return project, nil
}

// AuthorizeChart resolves the chart's parent project and applies the same
// rule as AuthorizeProject.
func (g *Guard) AuthorizeChart(ctx context.Context, identityID, chartID uint, mode Mode) (*model.Chart, error) {
	chart, err := g.charts.FindByID(ctx, chartID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrChartNotFound
		}
		return nil, fmt.Errorf("load chart %d: %w", chartID, err)
	}

	project := chart.Project
	if project == nil || project.ID != chart.ProjectID {
		project, err = g.projects.FindByID(ctx, chart.ProjectID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				// orphaned chart
				return nil, errors.ErrChartNotFound
			}
			return nil, fmt.Errorf("load project %d: %w", chart.ProjectID, err)
		}
		chart.Project = project
	}

	if err := decide(identityID, project, mode, errors.ErrChartNotFound); err != nil {
		return nil, err
	}
	return chart, nil
}

func decide(identityID uint, project *model.Project, mode Mode, notFound error) error {
	if identityID != Anonymous && project.UserID == identityID {
		return nil
	}
	if mode == Write {
		return errors.ErrForbidden
	}
	if !project.IsPublic {
		return notFound
	}
	return nil
}
