package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joeblew999/plat-style/internal/style"
)

const baseStyle = `{
  "version": 8,
  "center": [10, 50],
  "zoom": 5,
  "layers": [
    {"id": "water", "type": "fill"},
    {"id": "road_major", "type": "line"}
  ]
}`

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServerRoutes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.json")
	require.NoError(t, os.WriteFile(path, []byte(baseStyle), 0644))

	srv := New(Config{
		Host:      "localhost",
		Port:      "8086",
		DataDir:   filepath.Join(dir, "data"),
		BaseStyle: path,
		Center:    orb.Point{0, 20},
		Zoom:      2,
	})
	defer srv.Close()

	assert.Equal(t, http.StatusOK, get(srv, "/health").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/api/v1/map/layers").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/api/v1/history").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/").Code)
	assert.Equal(t, http.StatusNotFound, get(srv, "/nope").Code)

	doc, err := style.ParseDocument(get(srv, "/api/v1/map/style.json").Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, orb.Point{0, 20}, doc.Center())
	assert.Equal(t, 2.0, doc.Zoom())

	spec := srv.OpenAPI()
	require.NotNil(t, spec.Paths)
	assert.Contains(t, spec.Paths, "/api/v1/styles/generate")
	assert.Contains(t, spec.Paths, "/api/v1/editor/generate")
}

func TestServerWithoutBaseStyle(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	srv := New(Config{
		BaseStyle: filepath.Join(t.TempDir(), "missing.json"),
		Logger:    zap.New(core),
	})
	defer srv.Close()

	assert.Equal(t, http.StatusOK, get(srv, "/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(srv, "/api/v1/map/layers").Code)
	assert.Equal(t, 1, logs.FilterMessage("base style not loaded, map routes disabled").Len())

	paths := srv.OpenAPI().Paths
	assert.Contains(t, paths, "/api/v1/editor/apply")
	assert.Contains(t, paths, "/api/v1/editor/generate")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/editor/generate", strings.NewReader(`{"prompt":"dusk"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
