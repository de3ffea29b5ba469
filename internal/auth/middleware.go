package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"chartdeck/internal/errors"
)

// IdentityContextKey is the echo context key holding the *Identity of an
// authenticated request.
const IdentityContextKey = "identity"

// BearerMiddleware resolves "Authorization: Bearer <token>" into an
// *Identity. Tokens on the revocation list are refused; revoked may be nil.
// Every failure produces the same 401 response.
func BearerMiddleware(svc *JWTService, revoked *RevocationList) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: IdentityContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			identity, err := svc.VerifyToken(token)
			if err != nil {
				return nil, err
			}
			if revoked.IsRevoked(c.Request().Context(), identity.TokenID) {
				return nil, ErrInvalidToken
			}
			return identity, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return Unauthorized(c)
		},
	})
}

// Unauthorized builds the uniform unauthenticated response.
func Unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: errors.ErrUnauthenticated.Error(),
		Code:  "UNAUTHENTICATED",
	})
}

// IdentityFrom returns the identity stored by BearerMiddleware.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(IdentityContextKey).(*Identity)
	return identity, ok && identity != nil
}
