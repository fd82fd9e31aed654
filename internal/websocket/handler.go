package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/rcandido/listou/internal/auth"
)

// HandleWebSocket returns an HTTP handler that upgrades authenticated
// connections to WebSocket and runs them as Hub clients.
func HandleWebSocket(hub *Hub, authorize JoinAuthorizer, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // SPA may be served from a different origin
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, userID, authorize)
		client.Run(r.Context())
	}
}
