package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutchinick/ecomm-workers/internal/metrics"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(handler http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestServer_HealthEndpoint(t *testing.T) {
	server := NewServer(nil, "localhost", 8081, discardLogger(), nil, "test")

	w := serve(server.GetHandler(), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestServer_ReadyEndpoint(t *testing.T) {
	t.Run("ready when the database answers", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		mock.ExpectPing()

		server := NewServer(db, "localhost", 8081, discardLogger(), nil, "test")
		w := serve(server.GetHandler(), "/ready")

		assert.Equal(t, http.StatusOK, w.Code)
		response := decode(t, w)
		assert.Equal(t, "ready", response["status"])
		assert.Equal(t, "ok", response["components"].(map[string]interface{})["database"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not ready when the ping fails", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		server := NewServer(db, "localhost", 8081, discardLogger(), nil, "test")
		w := serve(server.GetHandler(), "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		response := decode(t, w)
		assert.Equal(t, "not_ready", response["status"])
		assert.Equal(t, "error", response["components"].(map[string]interface{})["database"])
	})

	t.Run("not ready without a database", func(t *testing.T) {
		server := NewServer(nil, "localhost", 8081, discardLogger(), nil, "test")

		w := serve(server.GetHandler(), "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_NotFoundEndpoint(t *testing.T) {
	server := NewServer(nil, "localhost", 8081, discardLogger(), nil, "test")

	w := serve(server.GetHandler(), "/nonexistent")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_NoMetricsEndpointWhenDisabled(t *testing.T) {
	server := NewServer(nil, "localhost", 8081, discardLogger(), nil, "test")

	w := serve(server.GetHandler(), "/metrics")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	server := NewServer(nil, "localhost", 8081, discardLogger(), provider, "test_app")
	handler := server.GetHandler()

	serve(handler, "/health")
	w := serve(handler, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "test_app_http_requests_total")
}

func TestServer_RequestIDHeader(t *testing.T) {
	server := NewServer(nil, "localhost", 8081, discardLogger(), nil, "test")

	w := serve(server.GetHandler(), "/health")

	requestID := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, requestID)
	parsed, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, parsed)
}

func TestCustomLoggerMiddleware_RecoversPanics(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := serve(router, "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := NewServer(nil, "127.0.0.1", 0, discardLogger(), nil, "test")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	assert.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}
