package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lucy-college/common/logger"
	"lucy-college/common/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func ok(name string) Checker {
	return CheckFunc{DependencyName: name, Fn: func(context.Context) error { return nil }}
}

func TestHealth(t *testing.T) {
	h := NewHandler(metrics.NewMock().Health, logger.Discard())
	w := serve(h, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReady_AllUp(t *testing.T) {
	h := NewHandler(metrics.NewMock().Health, logger.Discard(), ok("postgres"), ok("redis"))
	w := serve(h, "/ready")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, map[string]string{"postgres": "up", "redis": "up"}, resp.Dependencies)
	assert.Equal(t, []string{"postgres", "redis"}, h.Names())
}

func TestReady_DependencyDown(t *testing.T) {
	down := CheckFunc{DependencyName: "postgres", Fn: func(context.Context) error { return errors.New("connection refused") }}
	h := NewHandler(metrics.NewMock().Health, logger.Discard(), down, ok("nats"))
	w := serve(h, "/ready")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "not ready", resp.Status)
	assert.Equal(t, "down", resp.Dependencies["postgres"])
	assert.Equal(t, "up", resp.Dependencies["nats"])
}
