package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"geocapture/internal/config"
	"geocapture/internal/logger"
	"geocapture/internal/repository/filesystem"
	"geocapture/internal/route"
	"geocapture/internal/service/capture"
	"geocapture/internal/service/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config         *config.Config
	logger         *logger.Logger
	captureService *capture.Service
	hubService     *websocket.HubService
	router         http.Handler
}

// NewApp validates cfg and wires storage, services and routes. The upload
// directory is created here if it does not exist yet.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.NewLogger(cfg)

	images, err := filesystem.NewImageStore(cfg.UploadDirectory)
	if err != nil {
		log.Close()
		return nil, err
	}
	locations := filesystem.NewLocationLog(cfg.LocationLogPath())

	hub := websocket.NewHubService(log)
	svc := capture.NewService(images, locations, hub, log)

	return &App{
		config:         cfg,
		logger:         log,
		captureService: svc,
		hubService:     hub,
		router:         route.SetupRoutes(svc, hub, cfg, log),
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	go a.hubService.Run(ctx)

	server := &http.Server{
		Addr:              a.config.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("📷 Geo Capture Server\n")
	fmt.Printf("📍 URL: http://%s\n", a.config.Addr())
	fmt.Printf("📁 Uploads: %s\n", a.config.UploadDirectory)
	fmt.Printf("🌐 Frontend: %s\n", a.config.FrontendDirectory)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) CaptureService() *capture.Service {
	return a.captureService
}

// Close flushes and closes the log file.
func (a *App) Close() error {
	return a.logger.Close()
}
