package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RejectsOverLimit(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/generate-outline", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
		},
	})
	defer limiter.Stop()

	handler := Middleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/generate-outline", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		rec := do()
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := do()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit_exceeded", body["error"])
}

func TestMiddleware_HealthUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer limiter.Stop()

	handler := Middleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:4321"
	assert.Equal(t, "192.168.1.9", ClientID(req))

	req.RemoteAddr = "not-a-host-port"
	assert.Equal(t, "not-a-host-port", ClientID(req))
}

func TestMatchEndpoint_TaskPrefix(t *testing.T) {
	cfg := MatchEndpoint("/api/task/abc-123", "GET", DefaultEndpointConfigs())
	require.NotNil(t, cfg)
	assert.Equal(t, "/api/task/", cfg.Path)

	assert.Nil(t, MatchEndpoint("/api/themes", "GET", DefaultEndpointConfigs()))
}

func TestLimiter_TaskPollingSharesBucket(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/task/", Method: "GET", Limit: 2, Window: time.Hour, Burst: 2},
		},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("c", "/api/task/a", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/api/task/b", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/api/task/c", "GET")
	assert.False(t, allowed)
}
