package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-analytics/internal/handler"
	"github.com/iliyamo/event-analytics/internal/middleware"
	"github.com/iliyamo/event-analytics/internal/utils"
)

// RegisterRoutes registers routes that need no authentication or limits.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterReports exposes the report datasets and chart images under /v1.
// Report responses pass through the limiter and then the response cache;
// chart files are only rate limited.
func RegisterReports(e *echo.Echo, reports *handler.ReportHandler, charts *handler.ChartHandler, limiter, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", limiter)
	g.GET("/reports", reports.List)
	g.GET("/reports/:name", reports.Get, cache)
	g.GET("/charts/:file", charts.Get)
}

// RegisterImports exposes the import trigger to ADMIN tokens only.  The
// middleware is attached to the route itself so that unmatched /v1 paths
// still answer 404 rather than 401.
func RegisterImports(e *echo.Echo, imports *handler.ImportHandler, jwtSecret string) {
	e.POST("/v1/imports", imports.Run,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)
}
