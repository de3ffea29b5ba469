package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"wrapped project not found", fmt.Errorf("load: %w", ErrProjectNotFound), http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{"chart not found", ErrChartNotFound, http.StatusNotFound, "CHART_NOT_FOUND"},
		{"dataset not found", ErrDatasetNotFound, http.StatusNotFound, "DATASET_NOT_FOUND"},
		{"email taken", ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"invalid dataset", fmt.Errorf("%w: header row is empty", ErrInvalidDataset), http.StatusBadRequest, "INVALID_DATASET"},
		{"foreign source file", ErrInvalidSourceFile, http.StatusBadRequest, "INVALID_SOURCE_FILE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_InternalMessageIsGeneric(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Error)
}

func TestMapErrorToHTTP_InvalidDatasetKeepsDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("%w: duplicate column %q", ErrInvalidDataset, "x"))
	assert.Contains(t, httpErr.Message, `duplicate column "x"`)
}
