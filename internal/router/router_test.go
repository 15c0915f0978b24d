package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-analytics/internal/handler"
	"github.com/iliyamo/event-analytics/internal/ingest"
	"github.com/iliyamo/event-analytics/internal/memstore"
	"github.com/iliyamo/event-analytics/internal/report"
	"github.com/iliyamo/event-analytics/internal/utils"
)

const secret = "router-secret"

type stubImporter struct{ calls int }

func (s *stubImporter) Run(context.Context, string) (*ingest.Result, error) {
	s.calls++
	return &ingest.Result{RunID: "run"}, nil
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func newServer(t *testing.T, jwtSecret string) (*echo.Echo, *stubImporter) {
	t.Helper()
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	imp := &stubImporter{}
	RegisterRoutes(e)
	RegisterReports(e,
		handler.NewReportHandler(report.NewBuilder(memstore.New())),
		&handler.ChartHandler{Dir: t.TempDir()},
		passThrough, passThrough)
	RegisterImports(e, &handler.ImportHandler{Importer: imp, DefaultPath: "x.csv"}, jwtSecret)
	return e, imp
}

func request(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	e, _ := newServer(t, secret)

	assert.Equal(t, http.StatusOK, request(e, http.MethodGet, "/healthz", "", "").Code)

	rec := request(e, http.MethodGet, "/v1/reports/dashboard", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_registrations":0`)

	assert.Equal(t, http.StatusNotFound, request(e, http.MethodGet, "/v1/reports/unknown", "", "").Code)
	assert.Equal(t, http.StatusNotFound, request(e, http.MethodGet, "/v1/charts/1_university_breakdown.png", "", "").Code)
}

func TestImportRouteRequiresAdmin(t *testing.T) {
	e, imp := newServer(t, secret)

	admin, err := utils.NewAccessToken(secret, "ops", utils.RoleAdmin, 5)
	require.NoError(t, err)
	viewer, err := utils.NewAccessToken(secret, "bob", "VIEWER", 5)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(e, http.MethodPost, "/v1/imports", "", "").Code)
	assert.Equal(t, http.StatusForbidden, request(e, http.MethodPost, "/v1/imports", viewer.Token, "").Code)
	assert.Zero(t, imp.calls)

	rec := request(e, http.MethodPost, "/v1/imports", admin.Token, `{"path":"a.csv"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, imp.calls)
}

func TestImportRouteClosedWithoutSecret(t *testing.T) {
	e, imp := newServer(t, "")
	assert.Equal(t, http.StatusServiceUnavailable, request(e, http.MethodPost, "/v1/imports", "whatever", "").Code)
	assert.Zero(t, imp.calls)
}

func TestJSONSerializerDeserializeErrors(t *testing.T) {
	e := echo.New()
	var dst struct {
		Path string `json:"path"`
	}
	for _, body := range []string{`{"path":`, `{"path":12}`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c := e.NewContext(req, httptest.NewRecorder())
		err := JSONSerializer{}.Deserialize(c, &dst)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, body)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	}
}
