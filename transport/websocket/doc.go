// Package websocket provides WebSocket transport for the Mars Rover game.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting on every engine render
//   - Inbound player commands
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Only the Hub's Run goroutine touches the client
// maps; broadcasts are queued on a buffered channel and dropped when the
// queue is full, so an engine never blocks on a slow socket. Each client
// has a read pump and a write pump goroutine.
//
// Message Protocol:
//
// Clients connect with ?session=ID and receive the current state first.
//   - Outgoing: {"session_id": "ab12", "event": "state_update", "game_state": {...}}
//   - Incoming: {"action": "pilot", "command": "f"}
//
// Supported actions are start, pilot, bulk_pilot, reset, close_dialog,
// toggle_audio, viewport and state. Each command is answered to the sender
// with a command_result or error event; the new state reaches every client
// of the session through the session renderer. The render that ends a game
// is followed by a "victory" event carrying the alien position or a
// "game_over" event carrying the rover.
//
// Usage:
//
//	hub := websocket.NewHub(gameService)
//	go hub.Run(ctx)
//
//	sessions := session.NewManager(session.WithRendererFactory(hub.RendererFor))
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
