package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/catalog-api/internal/config"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error {
		require.NotEmpty(t, RequestID(c))
		return c.SendStatus(http.StatusTeapot)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusTeapot, resp.StatusCode)

	requestID := resp.Header.Get(RequestIDHeader)
	require.NotEmpty(t, requestID)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, requestID, fields["request_id"])
	require.Equal(t, int64(http.StatusTeapot), fields["status"])

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("/ping", "GET", "418")))
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordAuthFailure("wrong_password")
	m.RecordAuthFailure("wrong_password")
	m.RecordError("/api/products", "POST", "FORBIDDEN")
	m.RecordRequest("/api/products", "GET", 200, 5*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.authFailures.WithLabelValues("wrong_password")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/products", "POST", "FORBIDDEN")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "catalog_auth_failures_total"))

	var nilMetrics *Metrics
	nilMetrics.RecordAuthFailure("x")
	nilMetrics.RecordRequest("/", "GET", 200, time.Millisecond)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "DEBUG"})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "bogus"})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.DebugLevel))
}
