package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chartdeck/internal/authz"
	"chartdeck/internal/model"
	"chartdeck/internal/service"
)

// ProjectHandler handles project endpoints, including the public listing.
type ProjectHandler struct {
	svc service.ProjectService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// CreateProjectRequest represents a new project.
type CreateProjectRequest struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=1000"`
	SourceFilePath string  `json:"source_file_path" validate:"required,max=512"`
	IsPublic       bool    `json:"is_public"`
}

// List godoc
// @Summary List own projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset"
// @Param limit query int false "Limit (max 100)"
// @Success 200 {array} model.ProjectSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	projects, err := h.svc.ListOwn(c.Request().Context(), id, page(c))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, projects)
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Project data"
// @Success 201 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	var req CreateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	project, err := h.svc.Create(c.Request().Context(), id, service.CreateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		SourceFilePath: req.SourceFilePath,
		IsPublic:       req.IsPublic,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, project)
}

// Get godoc
// @Summary Get a project with its charts
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	return h.get(c, id)
}

// Update godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body model.ProjectUpdate true "Fields to change"
// @Success 200 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.ProjectUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	project, err := h.svc.Update(c.Request().Context(), id, projectID, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, project)
}

// Delete godoc
// @Summary Delete a project and its charts
// @Tags projects
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id, projectID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPublic godoc
// @Summary List public projects
// @Tags public
// @Produce json
// @Param offset query int false "Offset"
// @Param limit query int false "Limit (max 100)"
// @Success 200 {array} model.ProjectSummary
// @Router /public/projects [get]
func (h *ProjectHandler) ListPublic(c echo.Context) error {
	projects, err := h.svc.ListPublic(c.Request().Context(), page(c))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, projects)
}

// GetPublic godoc
// @Summary Get a public project with its charts
// @Tags public
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} model.Project
// @Failure 404 {object} errors.ErrorResponse
// @Router /public/projects/{id} [get]
func (h *ProjectHandler) GetPublic(c echo.Context) error {
	return h.get(c, authz.Anonymous)
}

func (h *ProjectHandler) get(c echo.Context, identityID uint) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	project, err := h.svc.Get(c.Request().Context(), identityID, projectID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, project)
}
