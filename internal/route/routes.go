package route

import (
	"net/http"
	"slices"

	"geocapture/internal/config"
	"geocapture/internal/handler"
	"geocapture/internal/logger"
	"geocapture/internal/middleware"
	"geocapture/internal/service/capture"
	"geocapture/internal/service/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers the API, the gallery, metrics and both static trees.
func SetupRoutes(svc *capture.Service, hub *websocket.HubService, cfg *config.Config, logger *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(corsOptions(cfg.CORSAllowedOrigins)))

	// API endpoints
	r.Post("/api/upload", handler.UploadHandler(svc, cfg, logger))
	r.Get("/api/locations", handler.ShowLocationsHandler(cfg))
	r.Get("/api/captures/live", handler.LiveWebsocketHandler(hub, logger))

	r.Get("/gallery", handler.GalleryHandler(svc, logger))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	uploads := handler.UploadsHandler(cfg.UploadDirectory)
	r.Get("/uploads/*", uploads.ServeHTTP)
	r.Head("/uploads/*", uploads.ServeHTTP)

	// Must stay last: it matches every path the routes above do not claim.
	frontend := unclaimed(r, handler.FrontendHandler(cfg.FrontendDirectory))
	r.Get("/*", frontend)
	r.Head("/*", frontend)

	return r
}

// corsOptions echoes the request origin when every origin is allowed, since
// browsers refuse a wildcard origin on credentialed responses.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}
	if slices.Contains(origins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	}
	return opts
}

// unclaimed answers 405 for paths another route serves under a different
// method. chi otherwise hands those to the catch-all.
func unclaimed(mux *chi.Mux, next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			if mux.Match(chi.NewRouteContext(), method, r.URL.Path) {
				w.Header().Set("Allow", method)
				http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
				return
			}
		}
		next.ServeHTTP(w, r)
	}
}
