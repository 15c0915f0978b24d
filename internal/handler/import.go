package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-analytics/internal/ingest"
	"github.com/iliyamo/event-analytics/internal/logging"
	"github.com/iliyamo/event-analytics/internal/middleware"
)

// ImportRunner runs one import.
type ImportRunner interface {
	Run(ctx context.Context, path string) (*ingest.Result, error)
}

// ImportHandler triggers an import over HTTP.
type ImportHandler struct {
	Importer    ImportRunner
	DefaultPath string
	// OnSuccess, if set, runs after a committed import; its error is logged.
	OnSuccess func(ctx context.Context, res *ingest.Result) error
}

type importRequest struct {
	Path string `json:"path"`
}

// Run handles POST /v1/imports.  The body may name a CSV path; otherwise
// DefaultPath is imported.
func (h *ImportHandler) Run(c echo.Context) error {
	var req importRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		path = h.DefaultPath
	}

	ctx := c.Request().Context()
	log := logging.With("subject", middleware.Subject(c))
	res, err := h.Importer.Run(ctx, path)
	switch {
	case errors.Is(err, ingest.ErrInputNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "input file not found", "path": path})
	case errors.Is(err, ingest.ErrNoHeader):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "input file has no header", "path": path})
	case err != nil:
		log.Error().Err(err).Str("path", path).Msg("import failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed"})
	}

	if h.OnSuccess != nil {
		if err := h.OnSuccess(ctx, res); err != nil {
			log.Warn().Err(err).Str("run_id", res.RunID).Msg("post-import hook failed")
		}
	}
	return c.JSON(http.StatusOK, res)
}
