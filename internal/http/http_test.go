package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vault/internal/config"
	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	"github.com/allisson/vault/internal/metrics"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
	vaultHTTP "github.com/allisson/vault/internal/vault/http"
	"github.com/allisson/vault/internal/vault/usecase/mocks"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeProbe struct {
	closed bool
}

func (p *fakeProbe) Closed() bool {
	return p.closed
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		MaxPayloadBytes:         64,
		RateLimitEnabled:        false,
		RateLimitRequestsPerSec: 1,
		RateLimitBurst:          1,
		MetricsNamespace:        "test_app",
	}
}

// createRoutedServer builds a server with every route wired to mocked use cases.
func createRoutedServer(
	t *testing.T,
	cfg *config.Config,
	probe ReadinessProbe,
) (*Server, *mocks.MockRecordUseCase, *mocks.MockVaultUseCase) {
	t.Helper()

	logger := discardLogger()
	recordUseCase := mocks.NewMockRecordUseCase(t)
	vaultUseCase := mocks.NewMockVaultUseCase(t)

	server := NewServer("127.0.0.1", 0, logger, probe)
	server.SetupRouter(
		cfg,
		vaultHTTP.NewRecordHandler(recordUseCase, logger),
		vaultHTTP.NewKeyHandler(vaultUseCase, logger),
		nil,
	)
	t.Cleanup(func() {
		if server.rateLimiter != nil {
			server.rateLimiter.Close()
		}
	})

	return server, recordUseCase, vaultUseCase
}

func TestHealthHandler(t *testing.T) {
	server := NewServer("localhost", 8080, discardLogger(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		probe      ReadinessProbe
		listening  bool
		wantStatus int
		wantHTTP   string
		wantKeys   string
	}{
		{"not listening", &fakeProbe{}, false, http.StatusServiceUnavailable, "error", "ok"},
		{"no key manager", nil, true, http.StatusServiceUnavailable, "ok", "error"},
		{"key manager closed", &fakeProbe{closed: true}, true, http.StatusServiceUnavailable, "ok", "error"},
		{"ready", &fakeProbe{}, true, http.StatusOK, "ok", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer("localhost", 8080, discardLogger(), tt.probe)
			server.listening.Store(tt.listening)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

			server.readinessHandler(c)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			components, ok := response["components"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.wantHTTP, components["http"])
			assert.Equal(t, tt.wantKeys, components["keys"])
		})
	}
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(newRequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?x=1", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/test", entry["path"])
	assert.Equal(t, "x=1", entry["query"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, w.Header().Get("X-Request-Id"), entry["request_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestIDMiddleware_HeaderPresent(t *testing.T) {
	router := gin.New()
	router.Use(newRequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	parsed, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	require.NoError(t, err, "X-Request-Id should be a valid UUID")
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRouter_Routes(t *testing.T) {
	server, recordUseCase, vaultUseCase := createRoutedServer(t, testConfig(), &fakeProbe{})

	id := uuid.Must(uuid.NewV7())
	recordUseCase.On("Retrieve", mock.Anything, id).
		Return(nil, vaultDomain.ErrRecordNotFound).
		Once()
	vaultUseCase.On("KeyInfo", mock.Anything).
		Return(cryptoDomain.KeyInfo{CurrentVersion: 1}).
		Once()

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/v1/records/" + id.String(), http.StatusNotFound},
		{http.MethodGet, "/v1/keys/info", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusNotFound},
		{http.MethodGet, "/nonexistent", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.GetHandler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRouter_PayloadTooLarge(t *testing.T) {
	server, _, _ := createRoutedServer(t, testConfig(), &fakeProbe{})

	body := `{"data":"` + strings.Repeat("x", 128) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/records", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "payload_too_large")
}

func TestMaxBodyMiddleware_StreamedBody(t *testing.T) {
	router := gin.New()
	router.Use(MaxBodyMiddleware(8, discardLogger()))
	router.POST("/echo", func(c *gin.Context) {
		var req map[string]interface{}
		if err := c.ShouldBindJSON(&req); err != nil {
			var maxErr *http.MaxBytesError
			if assert.ErrorAs(t, err, &maxErr) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", io.NopCloser(strings.NewReader(`{"k":"0123456789"}`)))
	req.ContentLength = -1

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true

	server, _, vaultUseCase := createRoutedServer(t, cfg, &fakeProbe{})
	vaultUseCase.On("KeyInfo", mock.Anything).
		Return(cryptoDomain.KeyInfo{CurrentVersion: 1}).
		Once()

	first := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/keys/info", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/keys/info", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	health := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := NewServer("127.0.0.1", 0, discardLogger(), &fakeProbe{})
	assert.Error(t, server.Start(context.Background()))
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server, _, _ := createRoutedServer(t, testConfig(), &fakeProbe{})

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	require.Eventually(t, server.listening.Load, 2*time.Second, 10*time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
	assert.False(t, server.listening.Load())
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
