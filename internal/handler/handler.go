package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"chartdeck/internal/auth"
	"chartdeck/internal/errors"
	"chartdeck/internal/service"
)

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator installed on the echo instance.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// MessageResponse carries a chart rejection or an informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

// bind decodes and validates a request body.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}
	return nil
}

// fail turns a service error into the HTTP error echo renders.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	he := echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	return he.SetInternal(err)
}

// identityID returns the caller id set by the bearer middleware.
func identityID(c echo.Context) (uint, error) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return 0, auth.Unauthorized(c)
	}
	return identity.ID, nil
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// page reads the offset and limit query parameters. Bad values fall back to
// the defaults.
func page(c echo.Context) service.Page {
	var p service.Page
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil {
		p.Offset = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		p.Limit = v
	}
	return p
}

func rejected(c echo.Context, message string) error {
	return c.JSON(http.StatusUnprocessableEntity, MessageResponse{Message: message})
}
