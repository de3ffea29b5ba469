package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned for a missing, malformed or expired bearer token.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden is returned when the caller may see a resource but not change it.
	ErrForbidden = errors.New("not allowed to modify this resource")
	// ErrProjectNotFound is returned when a project does not exist or is not visible to the caller.
	ErrProjectNotFound = errors.New("project not found")
	// ErrChartNotFound is returned when a chart does not exist or is not visible to the caller.
	ErrChartNotFound = errors.New("chart not found")
	// ErrDatasetNotFound is returned when a dataset handle is unknown, expired or owned by someone else.
	ErrDatasetNotFound = errors.New("dataset not found or expired, upload the file again")
	// ErrInvalidDataset is returned when an uploaded file cannot be read as a table.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrInvalidSourceFile is returned when a project names a source file the caller did not upload.
	ErrInvalidSourceFile = errors.New("source file must be one of your uploads")
	// ErrArtifactNotFound is returned when a stored chart image is missing.
	ErrArtifactNotFound = errors.New("chart image not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are
// matched with errors.Is; the message of a wrapped ErrInvalidDataset is kept
// so the caller learns what is wrong with the file.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrProjectNotFound):
		return NewHTTPError(http.StatusNotFound, ErrProjectNotFound.Error(), "PROJECT_NOT_FOUND")
	case errors.Is(err, ErrChartNotFound):
		return NewHTTPError(http.StatusNotFound, ErrChartNotFound.Error(), "CHART_NOT_FOUND")
	case errors.Is(err, ErrDatasetNotFound):
		return NewHTTPError(http.StatusNotFound, ErrDatasetNotFound.Error(), "DATASET_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrArtifactNotFound):
		return NewHTTPError(http.StatusNotFound, ErrArtifactNotFound.Error(), "ARTIFACT_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidSourceFile):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidSourceFile.Error(), "INVALID_SOURCE_FILE")
	case errors.Is(err, ErrInvalidDataset):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DATASET")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
