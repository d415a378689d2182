package main

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client represents a websocket connection with player info. roomID is
// empty until the client joins a game.
type Client struct {
	conn     *websocket.Conn
	playerID string
	writeMu  sync.Mutex // Serialize writes to WebSocket (required by gorilla/websocket)

	mu     sync.Mutex
	roomID string
}

func (c *Client) setRoom(roomID string) {
	c.mu.Lock()
	c.roomID = roomID
	c.mu.Unlock()
}

func (c *Client) room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

func (c *Client) write(message []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// WebSocket hub for routing room broadcasts to connected clients
type Hub struct {
	clients    map[*websocket.Conn]*Client
	register   chan *Client
	unregister chan *websocket.Conn
	mu         sync.RWMutex
	done       chan struct{}
	wg         sync.WaitGroup
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*Client),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn, 64),
		done:       make(chan struct{}),
	}
}

// start launches the hub goroutine. The WaitGroup is incremented here, not
// inside run, so a stop issued before run is scheduled still waits for it.
func (h *Hub) start() {
	h.wg.Add(1)
	go h.run()
}

// stop signals the hub goroutine to exit and waits for it to finish
func (h *Hub) stop() {
	close(h.done)
	h.wg.Wait()
}

var hub = newHub()

// sendToPlayer delivers a message to every connection held by one player.
func (h *Hub) sendToPlayer(playerID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.playerID == playerID {
			LogWSMessage("OUT", playerID, string(message))
			if err := client.write(message); err != nil {
				log.Printf("WebSocket write error to player %s: %v", playerID, err)
			}
		}
	}
}

// broadcastToRoom fans a message out to every client that has joined the
// given room.
func (h *Hub) broadcastToRoom(roomID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.room() != roomID {
			continue
		}
		if err := client.write(message); err != nil {
			log.Printf("WebSocket write error in room %s: %v", roomID, err)
		}
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client connected (player %s). Total: %d", client.playerID, total)
			DebugLog("hub.register", "Player %s connected via WebSocket", client.playerID)

		case conn := <-h.unregister:
			var departed *Client
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				departed = client
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected. Total: %d", total)
			// Roster removal runs after releasing the mutex because the
			// resulting broadcast re-enters broadcastToRoom, which takes
			// the read lock.
			if departed != nil {
				handleDisconnect(departed)
			}
		}
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Capture globals at entry to avoid race conditions in parallel tests
	currentHub := hub

	playerID := uuid.NewString()
	DebugLog("handleWebSocket", "New connection initiating WebSocket, assigned player id %s", playerID)

	var upgrader = websocket.Upgrader{
		// CheckOrigin: func(r *http.Request) bool {
		// 	return true // Allow all origins for local development
		// },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error for player %s: %v", playerID, err)
		return
	}

	DebugLog("handleWebSocket", "WebSocket upgraded successfully for player %s", playerID)
	client := &Client{conn: conn, playerID: playerID}
	currentHub.register <- client

	// Handle messages and disconnection
	go func() {
		defer func() {
			currentHub.unregister <- conn
		}()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				break
			}
			handleWSMessage(client, message)
		}
	}()
}
