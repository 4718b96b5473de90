package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"geocapture/internal/logger"
	"geocapture/internal/metrics"
	"geocapture/internal/service/capture"
)

//go:embed templates/*.html
var templates embed.FS

var galleryTemplate = template.Must(template.ParseFS(templates, "templates/gallery.html"))

// GalleryHandler renders every stored image and the full location log as HTML.
// The page is rendered into a buffer first so a template error never leaves a
// half-written page.
func GalleryHandler(svc *capture.Service, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := svc.Gallery(r.Context())
		if err != nil {
			logger.Error("Error loading gallery: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		var page bytes.Buffer
		if err := galleryTemplate.Execute(&page, data); err != nil {
			logger.Error("Error rendering gallery: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		metrics.GalleryRenders.Inc()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page.Bytes())
	}
}
