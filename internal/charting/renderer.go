package charting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chartdeck/internal/dataset"
	"chartdeck/internal/storage"
)

// NoDataMessage is the rejection for a dataset without rows.
const NoDataMessage = "no data to generate chart"

// Result is the outcome of a render: either an image with the key it was
// stored under, or a rejection explaining why nothing was drawn.
type Result struct {
	Image       []byte
	ArtifactKey string
	Plan        Plan
	Rejection   string
}

// Rejected reports whether the request was turned down.
func (r *Result) Rejected() bool {
	return r.Rejection != ""
}

// Renderer validates chart requests, draws them and stores one artifact per
// successful render.
type Renderer struct {
	plotter Plotter
	store   storage.Store
	logger  *slog.Logger
	now     func() time.Time
}

// NewRenderer creates a renderer.
func NewRenderer(plotter Plotter, store storage.Store, logger *slog.Logger) *Renderer {
	return &Renderer{
		plotter: plotter,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Render draws the requested chart. Bad requests, empty datasets and data
// that cannot be plotted produce a Result with a Rejection; only failures to
// store the artifact are returned as errors.
func (r *Renderer) Render(ctx context.Context, ds *dataset.Dataset, chartType string, sel ColumnSelection) (*Result, error) {
	plan, rejection := Validate(chartType, sel)
	if rejection != "" {
		return &Result{Rejection: rejection}, nil
	}
	if ds.Empty() {
		return &Result{Plan: plan, Rejection: NoDataMessage}, nil
	}

	fig, rejection := buildFigure(ds, plan)
	if rejection != "" {
		return &Result{Plan: plan, Rejection: rejection}, nil
	}

	image, err := r.plot(fig)
	if err != nil {
		r.logger.WarnContext(ctx, "chart plotting failed", "chart_type", plan.Type, "error", err)
		return &Result{Plan: plan, Rejection: fmt.Sprintf("%s chart could not be drawn from the selected columns", plan.Type)}, nil
	}

	key := storage.NewChartKey(r.now())
	if err := r.store.Put(ctx, key, image, storage.ContentTypePNG); err != nil {
		return nil, fmt.Errorf("store chart artifact: %w", err)
	}
	r.logger.DebugContext(ctx, "chart rendered", "chart_type", plan.Type, "artifact", key, "bytes", len(image))

	return &Result{Image: image, ArtifactKey: key, Plan: plan}, nil
}

// plot turns a panic inside the plotting library into an error.
func (r *Renderer) plot(fig *Figure) (image []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("plotter panic: %v", p)
		}
	}()
	return r.plotter.Plot(fig)
}
