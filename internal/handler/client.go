package handler

import (
	"net/http"

	"geocapture/internal/logger"
	hub "geocapture/internal/service/websocket"

	"github.com/gorilla/websocket"
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins,
// matching the CORS policy of the upload API.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveWebsocketHandler registers viewers with the hub so they receive an event
// for every new capture. Messages sent by the viewer are ignored.
func LiveWebsocketHandler(hubService *hub.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		viewer, ok := hubService.Register(connection)
		if !ok {
			connection.Close()
			return
		}
		defer hubService.Unregister(viewer)

		viewerLog := logger.With("viewer", viewer.ID)
		viewerLog.Debug("Viewer connected from %s", r.RemoteAddr)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					viewerLog.Debug("Viewer disconnected normally")
				} else {
					viewerLog.Debug("Viewer disconnected: %v", err)
				}
				break
			}
		}
	}
}
