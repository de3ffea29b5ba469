package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"chartdeck/internal/charting"
	"chartdeck/internal/dataset"
	"chartdeck/internal/errors"
	"chartdeck/internal/storage"
)

// UploadResult describes a parsed upload.
type UploadResult struct {
	DatasetID      string   `json:"dataset_id"`
	Columns        []string `json:"columns"`
	Rows           int      `json:"rows"`
	SourceFilePath string   `json:"source_file_path"`
}

// VisualizeService handles the upload then chart flow that is not bound to a
// project.
type VisualizeService interface {
	// Upload parses a CSV file, keeps the raw file and returns a dataset
	// handle private to the uploader.
	Upload(ctx context.Context, identityID uint, filename string, r io.Reader) (*UploadResult, error)
	// Generate renders a chart from a dataset handle.
	Generate(ctx context.Context, identityID uint, datasetID, chartType string, sel charting.ColumnSelection) (*charting.Result, error)
}

type visualizeService struct {
	datasets  dataset.Store
	renderer  ChartRenderer
	artifacts storage.Store
	logger    *slog.Logger
}

// NewVisualizeService creates a new visualize service.
func NewVisualizeService(datasets dataset.Store, renderer ChartRenderer, artifacts storage.Store, logger *slog.Logger) VisualizeService {
	return &visualizeService{
		datasets:  datasets,
		renderer:  renderer,
		artifacts: artifacts,
		logger:    logger,
	}
}

func (s *visualizeService) Upload(ctx context.Context, identityID uint, filename string, r io.Reader) (*UploadResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil, fmt.Errorf("%w: only .csv files are supported", errors.ErrInvalidDataset)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	ds, err := dataset.ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	key := storage.NewUploadKey(identityID)
	if err := s.artifacts.Put(ctx, key, raw, storage.ContentTypeCSV); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	id, err := s.datasets.Put(ctx, identityID, ds)
	if err != nil {
		removeArtifacts(ctx, s.artifacts, s.logger, []string{key})
		return nil, err
	}

	return &UploadResult{
		DatasetID:      id,
		Columns:        ds.Columns,
		Rows:           ds.Len(),
		SourceFilePath: key,
	}, nil
}

func (s *visualizeService) Generate(ctx context.Context, identityID uint, datasetID, chartType string, sel charting.ColumnSelection) (*charting.Result, error) {
	ds, err := s.datasets.Get(ctx, identityID, datasetID)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, ds, chartType, sel)
}
