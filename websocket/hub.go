package websocket

import (
	"SafeTube/interfaces"
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

const broadcastBuffer = 256

// Hub maintains the set of active clients per child topic and fans events out to them.
// Every write to a client's send channel happens on the Run goroutine.
type Hub struct {
	// Registered clients by child ID
	clients map[uint]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Outgoing messages for a child topic or a single client
	broadcast chan *Message

	// Progress records watch_progress frames before they are relayed. May be nil.
	Progress interfaces.ProgressRecorder

	// closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// Message is one frame routed through the hub. With Only set it goes to that client alone;
// otherwise it goes to every client on the child's topic except Exclude.
type Message struct {
	ChildID uint
	Data    []byte
	Exclude *Client
	Only    *Client
}

// Event is the JSON envelope of every outbound frame.
type Event struct {
	Type      string      `json:"type"`
	ChildID   uint        `json:"child_id"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewHub(progress interfaces.ProgressRecorder) *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, broadcastBuffer),
		Progress:   progress,
		done:       make(chan struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// EmitToChild queues an event for every device on the child's topic. It never blocks:
// when the hub is saturated the event is dropped.
func (h *Hub) EmitToChild(childID uint, event string, payload interface{}) {
	data, err := encodeEvent(childID, event, payload)
	if err != nil {
		log.Printf("[WebSocket] Failed to encode %s for child %d: %v", event, childID, err)
		return
	}
	h.enqueue(&Message{ChildID: childID, Data: data})
}

// ClientCount returns the number of clients joined to the child's topic.
func (h *Hub) ClientCount(childID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[childID])
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.ChildID]; !ok {
				h.clients[client.ChildID] = make(map[*Client]bool)
			}
			h.clients[client.ChildID][client] = true
			h.mu.Unlock()
			log.Printf("[WebSocket] %s joined child %d (device %q)", client.Role, client.ChildID, client.DeviceID)

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			h.deliver(message)
			h.mu.Unlock()
		}
	}
}

// deliver must be called with mu held.
func (h *Hub) deliver(message *Message) {
	clients, ok := h.clients[message.ChildID]
	if !ok {
		return
	}
	for client := range clients {
		if message.Only != nil && client != message.Only {
			continue
		}
		if client == message.Exclude {
			continue
		}
		select {
		case client.send <- message.Data:
		default:
			log.Printf("[WebSocket] Dropping slow client on child %d (device %q)", client.ChildID, client.DeviceID)
			h.remove(client)
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.ChildID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.ChildID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.remove(client)
		}
	}
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.Printf("[WebSocket] Broadcast queue full, dropping frame for child %d", message.ChildID)
	}
}

// inboundFrame is what devices send over the socket.
type inboundFrame struct {
	Type            string `json:"type"`
	VideoID         string `json:"video_id"`
	PositionSeconds int    `json:"position_seconds"`
}

// handleInbound processes one frame read from client.
func (h *Hub) handleInbound(client *Client, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Printf("[WebSocket] Invalid frame from child %d: %v", client.ChildID, err)
		return
	}

	switch frame.Type {
	case "ping":
		if data, err := encodeEvent(client.ChildID, "pong", nil); err == nil {
			h.enqueue(&Message{ChildID: client.ChildID, Data: data, Only: client})
		}

	case interfaces.EventWatchProgress:
		if client.Role != RoleChild || frame.VideoID == "" {
			return
		}
		payload := map[string]interface{}{
			"video_id":         frame.VideoID,
			"position_seconds": frame.PositionSeconds,
			"device_id":        client.DeviceID,
		}
		if h.Progress != nil {
			synced, err := h.Progress.SyncProgress(client.ChildID, client.DeviceID, frame.VideoID, frame.PositionSeconds)
			if err != nil {
				log.Printf("[WebSocket] Failed to record progress for child %d: %v", client.ChildID, err)
				return
			}
			payload["position_seconds"] = synced.PositionSeconds
		}
		data, err := encodeEvent(client.ChildID, interfaces.EventWatchProgress, payload)
		if err != nil {
			return
		}
		h.enqueue(&Message{ChildID: client.ChildID, Data: data, Exclude: client})

	default:
		log.Printf("[WebSocket] Ignoring frame %q from child %d", frame.Type, client.ChildID)
	}
}

func encodeEvent(childID uint, event string, payload interface{}) ([]byte, error) {
	return json.Marshal(Event{
		Type:      event,
		ChildID:   childID,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}
