package router

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"chartdeck/internal/auth"
	"chartdeck/internal/config"
	"chartdeck/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	jwtService *auth.JWTService,
	revocations *auth.RevocationList,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	projectHandler *handler.ProjectHandler,
	chartHandler *handler.ChartHandler,
	visualizeHandler *handler.VisualizeHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(cfg.MaxUploadSize))

	e.Validator = handler.NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/public/projects", projectHandler.ListPublic)
	api.GET("/public/projects/:id", projectHandler.GetPublic)
	api.GET("/public/charts/:id/image", chartHandler.PublicImage)

	// Secured routes (require a bearer token)
	secured := api.Group("", auth.BearerMiddleware(jwtService, revocations))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/profile", userHandler.GetProfile)
	secured.PUT("/profile", userHandler.UpdateProfile)
	secured.GET("/settings", userHandler.GetSettings)
	secured.PUT("/settings", userHandler.UpdateSettings)
	secured.DELETE("/account", userHandler.DeleteAccount)

	secured.POST("/upload", visualizeHandler.Upload)
	secured.POST("/chart", visualizeHandler.Chart)

	secured.GET("/projects", projectHandler.List)
	secured.POST("/projects", projectHandler.Create)
	secured.GET("/projects/:id", projectHandler.Get)
	secured.PUT("/projects/:id", projectHandler.Update)
	secured.DELETE("/projects/:id", projectHandler.Delete)

	secured.GET("/projects/:id/charts", chartHandler.List)
	secured.POST("/projects/:id/charts", chartHandler.Create)
	secured.PUT("/projects/:id/charts/order", chartHandler.Reorder)
	secured.GET("/charts/:id", chartHandler.Get)
	secured.PUT("/charts/:id", chartHandler.Update)
	secured.DELETE("/charts/:id", chartHandler.Delete)
	secured.GET("/charts/:id/image", chartHandler.Image)
}

// requestLogger logs one line per request through slog. Server errors are
// logged at error level with the request id.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				if v.Error != nil {
					attrs = append(attrs, "error", v.Error)
				}
				logger.ErrorContext(c.Request().Context(), "request", attrs...)
			default:
				logger.InfoContext(c.Request().Context(), "request", attrs...)
			}
			return nil
		},
	})
}
