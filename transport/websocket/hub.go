package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mars-rover-game/game/engine"
	"github.com/wricardo/mars-rover-game/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Pending broadcasts before new ones are dropped.
	broadcastBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message represents an outbound WebSocket message
type Message struct {
	SessionID string            `json:"session_id"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Event     string            `json:"event,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

// Inbound is a player command sent by a client.
//
//	{"action": "pilot", "command": "f"}
//	{"action": "bulk_pilot", "commands": ["f", "f", "r"]}
//	{"action": "viewport", "width": 800, "landscape": true}
type Inbound struct {
	Action    string   `json:"action"`
	Command   string   `json:"command,omitempty"`
	Commands  []string `json:"commands,omitempty"`
	Width     int      `json:"width,omitempty"`
	Landscape bool     `json:"landscape,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type directMessage struct {
	client *Client
	data   []byte
}

type countRequest struct {
	sessionID string
	reply     chan int
}

// Hub maintains the set of active clients and broadcasts messages. Only the
// Run goroutine touches the client maps.
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Outbound messages for every client of a session
	broadcast chan *Message

	// Replies addressed to a single client
	direct chan directMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	counts chan countRequest

	// Closed when Run returns
	done chan struct{}

	// Executes inbound commands; nil makes the socket push-only
	service service.GameService
}

// NewHub creates a new WebSocket hub. gameService may be nil.
func NewHub(gameService service.GameService) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		direct:     make(chan directMessage, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countRequest),
		done:       make(chan struct{}),
		service:    gameService,
	}
}

// SetService attaches the service executing inbound commands. It must be
// called before Run.
func (h *Hub) SetService(gameService service.GameService) {
	h.service = gameService
}

// Run starts the hub's event loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for client := range clients {
					close(client.send)
				}
			}
			h.sessions = make(map[string]map[*Client]bool)
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case dm := <-h.direct:
			if h.sessions[dm.client.sessionID][dm.client] {
				h.deliver(dm.client, dm.data)
			}

		case req := <-h.counts:
			req.reply <- len(h.sessions[req.sessionID])
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()

	// Initial state so the client can draw before the next change
	if h.service != nil {
		if state, err := h.service.GetGameState(r.Context(), sessionID); err == nil {
			h.reply(client, &Message{SessionID: sessionID, GameState: state, Event: "state_update"})
		}
	}
}

// ClientCount returns the number of clients connected to a session.
func (h *Hub) ClientCount(sessionID string) int {
	req := countRequest{sessionID: sessionID, reply: make(chan int, 1)}
	select {
	case h.counts <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

// BroadcastToSession queues a game state update for all clients in a session.
// It never blocks; updates are dropped when the queue is full.
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState) {
	h.enqueue(&Message{
		SessionID: sessionID,
		GameState: state,
		Event:     "state_update",
	})
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.enqueue(&Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	})
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.Printf("WebSocket broadcast queue full, dropping %s for session %s", message.Event, message.SessionID)
	}
}

// RendererFor returns a renderer that pushes every engine render to the
// session's clients. The render that ends a game is followed by a "victory"
// or "game_over" event. An engine never renders concurrently, so the
// closure's flags need no lock.
func (h *Hub) RendererFor(sessionID string) engine.Renderer {
	var won, over bool
	return engine.RendererFunc(func(state *engine.GameState) {
		h.BroadcastToSession(sessionID, state)
		if state.AlienFound && !won {
			h.BroadcastEvent(sessionID, "victory", state.AlienPos)
		}
		if state.GameOver && !over {
			h.BroadcastEvent(sessionID, "game_over", state.Rover)
		}
		won, over = state.AlienFound, state.GameOver
	})
}

// reply sends a message to one client through the hub loop.
func (h *Hub) reply(client *Client, message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal WebSocket reply: %v", err)
		return
	}
	select {
	case h.direct <- directMessage{client: client, data: data}:
	default:
		log.Printf("WebSocket reply queue full, dropping %s for session %s", message.Event, message.SessionID)
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("Client registered for session %s (total clients: %d)",
		client.sessionID, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty sessions
			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.Printf("Client unregistered from session %s (remaining clients: %d)",
				client.sessionID, len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	for client := range h.sessions[message.SessionID] {
		h.deliver(client, data)
	}
}

// deliver queues data on a client, dropping the client if it cannot keep up.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.unregisterClient(client)
	}
}

// handleInbound executes one client command and replies with its result.
// The resulting state reaches every client through the session renderer.
func (h *Hub) handleInbound(client *Client, raw []byte) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		h.reply(client, errorMessage(client.sessionID, "invalid message: "+err.Error()))
		return
	}
	if h.service == nil {
		h.reply(client, errorMessage(client.sessionID, "commands are not accepted on this socket"))
		return
	}

	ctx := context.Background()
	var (
		result interface{}
		err    error
	)
	switch in.Action {
	case "start":
		result, err = h.service.StartGame(ctx, client.sessionID, in.Width)
	case "pilot":
		result, err = h.service.Pilot(ctx, client.sessionID, in.Command)
	case "bulk_pilot":
		result, err = h.service.BulkPilot(ctx, client.sessionID, in.Commands)
	case "reset":
		result, err = h.service.Reset(ctx, client.sessionID)
	case "close_dialog":
		result, err = h.service.CloseDialog(ctx, client.sessionID)
	case "toggle_audio":
		result, err = h.service.ToggleAudio(ctx, client.sessionID)
	case "viewport":
		result, err = h.service.UpdateViewport(ctx, client.sessionID, in.Width, in.Landscape)
	case "state":
		var state *engine.GameState
		state, err = h.service.GetGameState(ctx, client.sessionID)
		if err == nil {
			h.reply(client, &Message{SessionID: client.sessionID, GameState: state, Event: "state_update"})
			return
		}
	default:
		h.reply(client, errorMessage(client.sessionID, "unknown action: "+in.Action))
		return
	}

	if err != nil {
		h.reply(client, errorMessage(client.sessionID, err.Error()))
		return
	}
	h.reply(client, &Message{SessionID: client.sessionID, Event: "command_result", Data: result})
}

func errorMessage(sessionID, msg string) *Message {
	return &Message{SessionID: sessionID, Event: "error", Data: map[string]string{"error": msg}}
}

// readPump pumps commands from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		c.hub.handleInbound(c, data)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
