package route

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"geocapture/internal/config"
	"geocapture/internal/dto"
	"geocapture/internal/logger"
	"geocapture/internal/repository/filesystem"
	"geocapture/internal/service/capture"
	"geocapture/internal/service/websocket"

	"github.com/goccy/go-json"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (http.Handler, *config.Config, *websocket.HubService) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		UploadDirectory:    filepath.Join(dir, "uploads"),
		FrontendDirectory:  filepath.Join(dir, "frontend"),
		CORSAllowedOrigins: []string{"*"},
		MaxUploadMemory:    1 << 20,
	}
	require.NoError(t, os.MkdirAll(cfg.FrontendDirectory, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.FrontendDirectory, "index.html"), []byte("frontend index"), 0644))

	images, err := filesystem.NewImageStore(cfg.UploadDirectory)
	require.NoError(t, err)
	log := logger.Nop()
	hub := websocket.NewHubService(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	svc := capture.NewService(images, filesystem.NewLocationLog(cfg.LocationLogPath()), hub, log)

	return SetupRoutes(svc, hub, cfg, log), cfg, hub
}

func upload(t *testing.T, router http.Handler, name string, content []byte) dto.UploadResponse {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("latitude", "37.77"))
	require.NoError(t, writer.WriteField("longitude", "-122.41"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes_UploadThenRetrieve(t *testing.T) {
	router, _, _ := setupRouter(t)
	content := []byte("jpeg bytes \x00\x01\x02")

	resp := upload(t, router, "photo.jpg", content)

	rec := get(router, "/uploads/"+resp.File)
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)

	assert.Equal(t, http.StatusNotFound, get(router, "/uploads/nonexistent.jpg").Code)
}

func TestRoutes_GalleryListsUpload(t *testing.T) {
	router, _, _ := setupRouter(t)
	resp := upload(t, router, "photo.png", []byte("png"))

	rec := get(router, "/gallery")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), resp.File)
	assert.Contains(t, rec.Body.String(), "Location: Lat 37.77, Lon -122.41 | Image: "+resp.File)
}

func TestRoutes_LocationLog(t *testing.T) {
	router, _, _ := setupRouter(t)
	resp := upload(t, router, "photo.png", []byte("png"))

	rec := get(router, "/api/locations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "| Image: "+resp.File+"\n")
}

func TestRoutes_FrontendIsFallback(t *testing.T) {
	router, _, _ := setupRouter(t)

	for _, path := range []string{"/", "/some/client/route"} {
		rec := get(router, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "frontend index", rec.Body.String(), path)
	}
	assert.Equal(t, http.StatusNotFound, get(router, "/static/missing.js").Code)
}

func TestRoutes_GalleryNotShadowedByFrontend(t *testing.T) {
	router, cfg, _ := setupRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.FrontendDirectory, "gallery"), []byte("shadow"), 0644))

	rec := get(router, "/gallery")
	assert.NotEqual(t, "shadow", rec.Body.String())
	assert.Contains(t, rec.Body.String(), "<pre>")
}

func TestRoutes_Metrics(t *testing.T) {
	router, _, _ := setupRouter(t)
	upload(t, router, "photo.png", []byte("png"))

	rec := get(router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "geocapture_uploads_total")
}

func TestRoutes_CORSPreflight(t *testing.T) {
	router, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	req.Header.Set("Origin", "http://phone.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://phone.local", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRoutes_ClaimedPathsNotServedByFrontend(t *testing.T) {
	router, cfg, _ := setupRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadDirectory, "a.png"), []byte("png"), 0644))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/upload"},
		{http.MethodHead, "/api/upload"},
		{http.MethodPost, "/gallery"},
		{http.MethodPost, "/api/locations"},
		{http.MethodPost, "/uploads/a.png"},
		{http.MethodDelete, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.NotContains(t, rec.Body.String(), "frontend index")
		})
	}

	rec := get(router, "/uploads/a.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestRoutes_UploadMissingField(t *testing.T) {
	router, _, _ := setupRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("latitude", "1"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRoutes_LiveFeedReceivesUploads(t *testing.T) {
	router, _, hub := setupRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/api/captures/live", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.GetViewerCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp := upload(t, router, "live.png", []byte("png"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]string
	require.NoError(t, json.Unmarshal(message, &event))
	assert.Equal(t, resp.File, event["file"])
	assert.Equal(t, "37.77", event["lat"])
	assert.Equal(t, "/uploads/"+resp.File, event["url"])
}
