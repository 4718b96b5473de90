package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"geocapture/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		UploadDirectory:    filepath.Join(dir, "uploads"),
		FrontendDirectory:  filepath.Join(dir, "frontend"),
		BindAddress:        "127.0.0.1",
		Port:               8000,
		LogDirectory:       filepath.Join(dir, "logs"),
		LogLevel:           "error",
		CORSAllowedOrigins: []string{"*"},
		MaxUploadMemory:    1 << 20,
	}
}

func TestNewApp_CreatesUploadDirectory(t *testing.T) {
	cfg := testConfig(t)

	application, err := NewApp(cfg)
	require.NoError(t, err)
	defer application.Close()

	info, err := os.Stat(cfg.UploadDirectory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Port = 0

	_, err := NewApp(cfg)
	assert.Error(t, err)
}
