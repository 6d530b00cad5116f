package stream

import (
	"github.com/gorilla/websocket"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

// WSFrame is the envelope the server writes for every streamed event.
type WSFrame struct {
	Type  string      `json:"type"`
	Event trace.Event `json:"event"`
}

// WS streams events over a websocket connection as they are posted. The
// connection is written from the session goroutine only, so frame order
// matches emission order.
type WS struct {
	conn *websocket.Conn
}

func NewWS(conn *websocket.Conn) *WS {
	return &WS{conn: conn}
}

func (w *WS) Send(ev trace.Event) error {
	return w.conn.WriteJSON(WSFrame{Type: "event", Event: ev})
}

// Close is a no-op: the connection outlives the session and is owned by the
// websocket handler.
func (w *WS) Close() error { return nil }
