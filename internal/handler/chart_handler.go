package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chartdeck/internal/authz"
	"chartdeck/internal/charting"
	"chartdeck/internal/model"
	"chartdeck/internal/service"
	"chartdeck/internal/storage"
)

// ChartHandler handles charts stored in projects.
type ChartHandler struct {
	svc service.ChartService
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(svc service.ChartService) *ChartHandler {
	return &ChartHandler{svc: svc}
}

// CreateChartRequest renders a chart from an uploaded dataset into a project.
type CreateChartRequest struct {
	Title       string                   `json:"title" validate:"required,max=200"`
	Description *string                  `json:"description" validate:"omitempty,max=500"`
	DatasetID   string                   `json:"dataset_id" validate:"required"`
	ChartType   string                   `json:"chartType" validate:"required"`
	Columns     charting.ColumnSelection `json:"columns"`
	OrderIndex  *int                     `json:"order_index" validate:"omitempty,min=0"`
}

// ReorderRequest moves charts of one project.
type ReorderRequest struct {
	Orders []model.ChartOrder `json:"orders" validate:"required,dive"`
}

// ReorderResponse reports how many moves were applied.
type ReorderResponse struct {
	Applied int `json:"applied"`
}

// List godoc
// @Summary List the charts of a project
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {array} model.Chart
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id}/charts [get]
func (h *ChartHandler) List(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	charts, err := h.svc.List(c.Request().Context(), id, projectID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, charts)
}

// Create godoc
// @Summary Render a chart and save it into a project
// @Tags charts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body CreateChartRequest true "Chart data"
// @Success 201 {object} model.Chart
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} MessageResponse
// @Router /projects/{id}/charts [post]
func (h *ChartHandler) Create(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req CreateChartRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	chart, res, err := h.svc.Create(c.Request().Context(), id, projectID, service.CreateChartInput{
		Title:       req.Title,
		Description: req.Description,
		DatasetID:   req.DatasetID,
		ChartType:   req.ChartType,
		Columns:     req.Columns,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		return fail(err)
	}
	if res.Rejected() {
		return rejected(c, res.Rejection)
	}
	return c.JSON(http.StatusCreated, chart)
}

// Reorder godoc
// @Summary Change the display order of charts
// @Tags charts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body ReorderRequest true "New order indices"
// @Success 200 {object} ReorderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id}/charts/order [put]
func (h *ChartHandler) Reorder(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req ReorderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	applied, err := h.svc.Reorder(c.Request().Context(), id, projectID, req.Orders)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, ReorderResponse{Applied: applied})
}

// Get godoc
// @Summary Get a chart
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chart ID"
// @Success 200 {object} model.Chart
// @Failure 404 {object} errors.ErrorResponse
// @Router /charts/{id} [get]
func (h *ChartHandler) Get(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	chartID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	chart, err := h.svc.Get(c.Request().Context(), id, chartID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, chart)
}

// Update godoc
// @Summary Update a chart
// @Tags charts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chart ID"
// @Param request body model.ChartUpdate true "Fields to change"
// @Success 200 {object} model.Chart
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /charts/{id} [put]
func (h *ChartHandler) Update(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	chartID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.ChartUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	chart, err := h.svc.Update(c.Request().Context(), id, chartID, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, chart)
}

// Delete godoc
// @Summary Delete a chart
// @Tags charts
// @Security BearerAuth
// @Param id path int true "Chart ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /charts/{id} [delete]
func (h *ChartHandler) Delete(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	chartID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id, chartID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Image godoc
// @Summary Download the chart image
// @Tags charts
// @Produce png
// @Security BearerAuth
// @Param id path int true "Chart ID"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /charts/{id}/image [get]
func (h *ChartHandler) Image(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	return h.image(c, id)
}

// PublicImage godoc
// @Summary Download the image of a chart in a public project
// @Tags public
// @Produce png
// @Param id path int true "Chart ID"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /public/charts/{id}/image [get]
func (h *ChartHandler) PublicImage(c echo.Context) error {
	return h.image(c, authz.Anonymous)
}

func (h *ChartHandler) image(c echo.Context, identityID uint) error {
	chartID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	img, err := h.svc.Image(c.Request().Context(), identityID, chartID)
	if err != nil {
		return fail(err)
	}
	return c.Blob(http.StatusOK, storage.ContentTypePNG, img)
}
