package humanbridge

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lox/pokerengine/internal/engine"
)

// WebSocketAdapter shows the shape an external UI could use to deliver a
// human action over a socket: it decodes one JSON message per inbound
// frame and relays it to a Bridge's Submit. It is illustrative only —
// nothing in internal/engine, internal/strategy, or Bridge/Strategy above
// imports it; a human seat is always wired in-process through the Bridge
// directly. Swapping transports (stdin, a local TUI, this adapter) never
// touches the engine core.
type WebSocketAdapter struct {
	bridge   *Bridge
	upgrader websocket.Upgrader
}

// NewWebSocketAdapter returns an adapter relaying decoded actions to bridge.
func NewWebSocketAdapter(bridge *Bridge) *WebSocketAdapter {
	return &WebSocketAdapter{
		bridge: bridge,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// wireAction is the over-the-wire shape of one human action.
type wireAction struct {
	Seat   int    `json:"seat"`
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

// ServeHTTP upgrades the connection and relays every decoded action to the
// bridge for the lifetime of the socket, returning once the connection
// closes or sends something undecodable.
func (a *WebSocketAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var msg wireAction
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		actionType, ok := parseActionType(msg.Type)
		if !ok {
			continue
		}
		a.bridge.Submit(engine.PlayerAction{Seat: msg.Seat, Type: actionType, Amount: msg.Amount})
	}
}

func parseActionType(s string) (engine.ActionType, bool) {
	switch s {
	case "fold":
		return engine.Fold, true
	case "check":
		return engine.Check, true
	case "call":
		return engine.Call, true
	case "raise":
		return engine.Raise, true
	case "allin":
		return engine.AllIn, true
	default:
		return 0, false
	}
}
