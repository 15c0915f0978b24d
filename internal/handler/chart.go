package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-analytics/internal/chart"
)

// ChartHandler serves rendered chart images from Dir.
type ChartHandler struct {
	Dir string
}

// Get handles GET /v1/charts/:file.  Only the known chart file names are
// served, which also keeps the parameter from escaping Dir.
func (h *ChartHandler) Get(c echo.Context) error {
	file := c.Param("file")
	if !chart.IsChartFile(file) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown chart"})
	}
	path := filepath.Join(h.Dir, file)
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "chart not rendered yet"})
	}
	return c.File(path)
}
