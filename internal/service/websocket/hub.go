package websocket

import (
	"context"
	"sync"
	"time"

	"geocapture/internal/dto"
	"geocapture/internal/logger"
	"geocapture/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// broadcastBuffer bounds how many capture events may wait for the hub loop.
	broadcastBuffer = 64
	writeTimeout    = 5 * time.Second
)

// Viewer is one connected live feed client.
type Viewer struct {
	ID   string
	conn *websocket.Conn
}

// HubService fans capture events out to every connected viewer.
type HubService struct {
	viewers    map[*Viewer]bool
	broadcast  chan []byte
	register   chan *Viewer
	unregister chan *Viewer
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		viewers:    make(map[*Viewer]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Viewer),
		unregister: make(chan *Viewer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the viewer set until ctx is cancelled, then closes every connection.
func (h *HubService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for viewer := range h.viewers {
				viewer.conn.Close()
				delete(h.viewers, viewer)
			}
			h.mutex.Unlock()
			metrics.LiveViewers.Set(0)
			return

		case viewer := <-h.register:
			h.mutex.Lock()
			h.viewers[viewer] = true
			count := len(h.viewers)
			h.mutex.Unlock()
			metrics.LiveViewers.Set(float64(count))
			h.logger.Info("Viewer %s connected. Total: %d", viewer.ID, count)

		case viewer := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.viewers[viewer]; ok {
				delete(h.viewers, viewer)
				viewer.conn.Close()
			}
			count := len(h.viewers)
			h.mutex.Unlock()
			metrics.LiveViewers.Set(float64(count))
			h.logger.Info("Viewer %s disconnected. Total: %d", viewer.ID, count)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for viewer := range h.viewers {
				viewer.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := viewer.conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending capture to viewer %s: %v", viewer.ID, err)
					delete(h.viewers, viewer)
					viewer.conn.Close()
				}
			}
			metrics.LiveViewers.Set(float64(len(h.viewers)))
			h.mutex.Unlock()
		}
	}
}

// Register adds conn to the hub and returns its viewer handle. It reports
// false once the hub has stopped.
func (h *HubService) Register(conn *websocket.Conn) (*Viewer, bool) {
	viewer := &Viewer{ID: uuid.New().String(), conn: conn}
	select {
	case h.register <- viewer:
		return viewer, true
	case <-h.done:
		return nil, false
	}
}

func (h *HubService) Unregister(viewer *Viewer) {
	select {
	case h.unregister <- viewer:
	case <-h.done:
	}
}

// Broadcast queues event for delivery. It never blocks the caller; when the
// queue is full the event is dropped.
func (h *HubService) Broadcast(event dto.CaptureEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Error encoding capture event: %v", err)
		return
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.Warning("Live feed queue full, dropping event for %s", event.File)
	}
}

func (h *HubService) GetViewerCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.viewers)
}
