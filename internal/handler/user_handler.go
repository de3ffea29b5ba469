package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chartdeck/internal/model"
	"chartdeck/internal/service"
)

// UserHandler serves the profile, settings and account of the caller.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	profile, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProfileUpdate true "Fields to change"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	var req model.ProfileUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := h.svc.UpdateProfile(c.Request().Context(), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetSettings godoc
// @Summary Get own settings
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Settings
// @Failure 401 {object} errors.ErrorResponse
// @Router /settings [get]
func (h *UserHandler) GetSettings(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	settings, err := h.svc.GetSettings(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update own settings
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SettingsUpdate true "Fields to change"
// @Success 200 {object} model.Settings
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /settings [put]
func (h *UserHandler) UpdateSettings(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	var req model.SettingsUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	settings, err := h.svc.UpdateSettings(c.Request().Context(), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, settings)
}

// DeleteAccount godoc
// @Summary Delete own account with all projects and charts
// @Tags users
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /account [delete]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	id, err := identityID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAccount(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
