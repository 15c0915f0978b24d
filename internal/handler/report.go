package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-analytics/internal/logging"
	"github.com/iliyamo/event-analytics/internal/report"
)

// ReportBuilder builds a report dataset by name.
type ReportBuilder interface {
	Build(ctx context.Context, name string) (any, error)
}

// ReportHandler serves the report datasets as JSON.
type ReportHandler struct {
	Builder ReportBuilder
}

// NewReportHandler panics on a nil builder.
func NewReportHandler(b ReportBuilder) *ReportHandler {
	if b == nil {
		panic("nil builder passed to NewReportHandler")
	}
	return &ReportHandler{Builder: b}
}

// List returns the available report names.
func (h *ReportHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"reports": report.Names})
}

// Get handles GET /v1/reports/:name.
func (h *ReportHandler) Get(c echo.Context) error {
	name := c.Param("name")
	v, err := h.Builder.Build(c.Request().Context(), name)
	switch {
	case errors.Is(err, report.ErrUnknownReport):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown report", "report": name})
	case err != nil:
		logging.Error().Err(err).Str("report", name).Msg("build report failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"report": name, "data": v})
}
