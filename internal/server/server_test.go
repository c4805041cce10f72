package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swsnr/swsnr.de/internal/config"
	"github.com/swsnr/swsnr.de/internal/server"
)

func newSite(t *testing.T, withNotFound bool) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":             "home",
		"hello-world/index.html": "hello",
		"css/style.css":          "body {}",
	}
	if withNotFound {
		files["404.html"] = "custom not found"
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func get(t *testing.T, h http.Handler, path string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestServer(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		OutputDir: newSite(t, false),
		Redirects: map[string]string{"/old-post": "/hello-world/"},
	}
	h := server.New(cfg, nil)

	t.Run("serves index", func(t *testing.T) {
		res, body := get(t, h, "/")
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "home", body)
		assert.Contains(t, res.Header.Get("Cache-Control"), "no-cache")
	})

	t.Run("serves page directory", func(t *testing.T) {
		res, body := get(t, h, "/hello-world/")
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "hello", body)
	})

	t.Run("serves assets", func(t *testing.T) {
		res, body := get(t, h, "/css/style.css")
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "body {}", body)
	})

	t.Run("hides directory listings", func(t *testing.T) {
		res, _ := get(t, h, "/css/")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("missing file", func(t *testing.T) {
		res, _ := get(t, h, "/nope/")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("redirects", func(t *testing.T) {
		for _, path := range []string{"/old-post", "/old-post/"} {
			res, _ := get(t, h, path)
			assert.Equal(t, http.StatusMovedPermanently, res.StatusCode, path)
			assert.Equal(t, "/hello-world/", res.Header.Get("Location"), path)
		}
	})
}

func TestServer_CustomNotFound(t *testing.T) {
	t.Parallel()

	h := server.New(config.Config{OutputDir: newSite(t, true)}, nil)

	res, body := get(t, h, "/missing")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "custom not found", body)
}
