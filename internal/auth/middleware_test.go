package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedServer(t *testing.T, svc *JWTService, revoked *RevocationList) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]uint{"id": identity.ID})
	}, BearerMiddleware(svc, revoked))
	return e
}

func TestBearerMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(t)
	e := newProtectedServer(t, svc, nil)

	token, err := svc.IssueToken(9, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":9}`, rec.Body.String())
}

func TestBearerMiddleware_UniformRejection(t *testing.T) {
	svc := newTestJWTService(t)
	e := newProtectedServer(t, svc, nil)

	expiredSvc := newTestJWTService(t)
	expiredSvc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredSvc.IssueToken(9, time.Minute)
	require.NoError(t, err)

	headers := map[string]string{
		"missing": "",
		"garbage": "Bearer abc",
		"expired": "Bearer " + expired,
		"scheme":  "Basic Zm9vOmJhcg==",
	}

	var bodies []string
	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set(echo.HeaderAuthorization, header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			bodies = append(bodies, rec.Body.String())
		})
	}

	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
}
