package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-analytics/internal/config"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func limitedServer(t *testing.T, strategy string) (*echo.Echo, *fakeClock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clock := &fakeClock{t: time.Date(2025, 1, 25, 10, 0, 0, 0, time.UTC)}
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    strategy,
		Prefix:         "rl",
	}
	e := echo.New()
	g := e.Group("/v1", newTokenBucket(cfg, rdb, clock.now))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	g.GET("/reports/:name", ok)
	g.GET("/charts/:file", ok)
	return e, clock, mr
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "10.0.0.7:5123"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenBucketPerReport(t *testing.T) {
	e, clock, _ := limitedServer(t, "ip_report")

	first := get(e, "/v1/reports/meals")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, get(e, "/v1/reports/meals").Code)

	blocked := get(e, "/v1/reports/meals")
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))

	// Other reports have their own bucket.
	assert.Equal(t, http.StatusOK, get(e, "/v1/reports/regions").Code)

	clock.t = clock.t.Add(time.Minute)
	assert.Equal(t, http.StatusOK, get(e, "/v1/reports/meals").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(e, "/v1/reports/meals").Code)
}

func TestTokenBucketChartsShareOneBucket(t *testing.T) {
	e, _, _ := limitedServer(t, "")
	assert.Equal(t, http.StatusOK, get(e, "/v1/charts/5_meal_analysis.png").Code)
	assert.Equal(t, http.StatusOK, get(e, "/v1/charts/6_top_schools.png").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(e, "/v1/charts/7_executive_dashboard.png").Code)
	assert.Equal(t, http.StatusOK, get(e, "/v1/reports/meals").Code)
}

func TestTokenBucketPerClient(t *testing.T) {
	e, _, _ := limitedServer(t, "ip")
	assert.Equal(t, http.StatusOK, get(e, "/v1/reports/meals").Code)
	assert.Equal(t, http.StatusOK, get(e, "/v1/charts/5_meal_analysis.png").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(e, "/v1/reports/regions").Code)
}

func TestTokenBucketKeys(t *testing.T) {
	e, _, mr := limitedServer(t, "ip_report")
	get(e, "/v1/reports/top-schools")
	get(e, "/v1/charts/1_university_breakdown.png")
	assert.ElementsMatch(t, []string{"rl:ip:10.0.0.7:report:top-schools", "rl:ip:10.0.0.7:charts"}, mr.Keys())
	assert.Equal(t, 10*time.Minute, mr.TTL("rl:ip:10.0.0.7:charts"))
}

func TestTokenBucketRedisDownAllows(t *testing.T) {
	e, _, mr := limitedServer(t, "ip_report")
	mr.Close()
	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, get(e, "/v1/reports/meals").Code)
	}
}
