package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"incident-dashboard/be/config"
	"incident-dashboard/be/database"
	"incident-dashboard/be/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Setenv("GIN_MODE", gin.TestMode)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:router_test?mode=memory&cache=shared")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("RESOLVE_RATE_LIMIT", "0.001")
	t.Setenv("RESOLVE_RATE_BURST", "1")
	t.Setenv("TIMELINE_TZ", "UTC")

	cfg := config.Load()
	db, err := database.Initialize(cfg.Database)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := services.NewEventHub()
	go hub.Run(ctx)

	return setupRouter(cfg, db, hub)
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/metrics", "/api/incidents", "/api/incidents?resolved=true", "/api/cameras", "/api/timeline"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouterGzipAndCORS(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cameras", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/cameras", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterResolveIsRateLimited(t *testing.T) {
	router := newTestRouter(t)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/incidents/missing/resolve", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNotFound, http.StatusTooManyRequests}, codes)
}

func TestCloseDatabase(t *testing.T) {
	db, err := database.Initialize(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:close_test?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)

	require.NoError(t, closeDatabase(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "database should be closed")
}
