package api

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupTestRouter(t *testing.T, assert *require.Assertions) *gin.Engine {
	t.Setenv("ENV", "test")
	storagePath := t.TempDir()
	t.Setenv("STORAGE_PATH", storagePath)
	t.Setenv("KVDB_PATH", filepath.Join(storagePath, "catalogue.db"))

	cfg, err := config.Load("")
	assert.NoError(err)

	testLogger := newTestLogger()
	deps, err := NewDependencies(t.Context(), testLogger, cfg)
	assert.NoError(err)
	t.Cleanup(func() {
		assert.NoError(deps.Close())
	})

	gin.SetMode(gin.TestMode)
	router := newRouter(testLogger)
	setupRoutes(router, testLogger, deps)

	return router
}

func TestHealth(t *testing.T) {
	assert := require.New(t)
	router := setupTestRouter(t, assert)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	assert.NoError(err)
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusOK, w.Code)
	assert.Equal("OK", w.Body.String())
	assert.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	assert := require.New(t)
	router := setupTestRouter(t, assert)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodOptions, "/api/v1/documents/search", nil)
	assert.NoError(err)
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusNoContent, w.Code)
	assert.Equal("X-Pagination-Total-Count", w.Header().Get("Access-Control-Expose-Headers"))
}

func TestRoutesRegistered(t *testing.T) {
	assert := require.New(t)
	router := setupTestRouter(t, assert)

	routes := make(map[string]struct{})
	for _, route := range router.Routes() {
		routes[route.Method+" "+route.Path] = struct{}{}
	}

	for _, expected := range []string{
		"GET /health",
		"GET /api/v1/documents/search",
		"POST /api/v1/documents/upload",
		"GET /api/v1/documents",
		"GET /api/v1/documents/:id",
		"DELETE /api/v1/documents/:id",
	} {
		assert.Contains(routes, expected)
	}
}
