package site_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swsnr/swsnr.de/internal/config"
)

// writeTree creates files below root from a map of slash separated paths to
// contents.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path ...string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(path...))
	require.NoError(t, err)
	return string(b)
}

func testConfig(root string) config.Config {
	return config.Config{
		SiteTitle:        "Sebastian Wiesner",
		Description:      "System engineer",
		Location:         "https://swsnr.de",
		Lang:             "en",
		Author:           config.Author{Name: "Sebastian Wiesner", Email: "sebastian@swsnr.de"},
		Src:              filepath.Join(root, "src"),
		OutputDir:        filepath.Join(root, "_site"),
		LayoutsDir:       filepath.Join(root, "layouts"),
		StaticDir:        filepath.Join(root, "static"),
		Tags:             []string{"emacs"},
		DescriptionWords: 100,
	}
}
