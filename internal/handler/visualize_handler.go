package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chartdeck/internal/charting"
	"chartdeck/internal/errors"
	"chartdeck/internal/service"
	"chartdeck/internal/storage"
)

// VisualizeHandler serves the upload then chart flow.
type VisualizeHandler struct {
	svc service.VisualizeService
}

// NewVisualizeHandler creates a new visualize handler.
func NewVisualizeHandler(svc service.VisualizeService) *VisualizeHandler {
	return &VisualizeHandler{svc: svc}
}

// ChartRequest asks for a chart of an uploaded dataset.
type ChartRequest struct {
	DatasetID string                   `json:"dataset_id" validate:"required"`
	ChartType string                   `json:"chartType" validate:"required"`
	Columns   charting.ColumnSelection `json:"columns"`
}

// Upload godoc
// @Summary Upload a CSV file
// @Tags visualize
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} service.UploadResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /upload [post]
func (h *VisualizeHandler) Upload(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "multipart field \"file\" is required",
			Code:  "INVALID_REQUEST",
		})
	}
	f, err := fh.Open()
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	res, err := h.svc.Upload(c.Request().Context(), id, fh.Filename, f)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, res)
}

// Chart godoc
// @Summary Render a chart from an uploaded dataset
// @Tags visualize
// @Accept json
// @Produce png
// @Security BearerAuth
// @Param request body ChartRequest true "Chart type and column selection"
// @Success 200 {file} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} MessageResponse
// @Router /chart [post]
func (h *VisualizeHandler) Chart(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	var req ChartRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.svc.Generate(c.Request().Context(), id, req.DatasetID, req.ChartType, req.Columns)
	if err != nil {
		return fail(err)
	}
	if res.Rejected() {
		return rejected(c, res.Rejection)
	}
	return c.Blob(http.StatusOK, storage.ContentTypePNG, res.Image)
}
