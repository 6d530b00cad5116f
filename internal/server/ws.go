package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/stream"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are filtered by the CORS layer
	},
}

// WSMessage is one client frame.
type WSMessage struct {
	Type string `json:"type"`
	Code string `json:"code,omitempty"`
}

// handleWS streams a session's events over the connection as they are
// posted. One submission runs at a time per connection; the write side is
// touched only from this handler's goroutine, so frame order is emission
// order.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	s.metrics.WSConnections.Inc()
	defer s.metrics.WSConnections.Dec()

	s.logger.Info("websocket connected", zap.String("conn", connID))

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			s.logger.Info("websocket closed", zap.String("conn", connID), zap.Error(err))
			return
		}

		switch msg.Type {
		case "run":
			sess, result := s.runSession(c.Request.Context(), msg.Code, stream.NewWS(conn))
			done := map[string]interface{}{
				"type":      "done",
				"sessionId": string(sess.ID),
				"status":    result.Status.String(),
				"exitCode":  result.Status.ExitCode(),
			}
			if err := conn.WriteJSON(done); err != nil {
				return
			}
		case "ping":
			if err := conn.WriteJSON(map[string]string{"type": "pong"}); err != nil {
				return
			}
		default:
			_ = conn.WriteJSON(map[string]string{"type": "error", "error": "unknown message type"})
		}
	}
}
