package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	// must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024 * 4

	sendBuffer = 64

	RoleChild  = "child"
	RoleParent = "parent"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// native apps do not send a browser origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one device (or parent app) joined to a child's topic.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	ChildID  uint
	Role     string
	DeviceID string
	send     chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, childID uint, role, deviceID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		ChildID:  childID,
		Role:     role,
		DeviceID: deviceID,
		send:     make(chan []byte, sendBuffer),
	}
}

// ServeWs upgrades the request and joins the connection to the child's topic. The caller
// has already authenticated it.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, childID uint, role, deviceID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WebSocket] Upgrade failed for child %d: %v", childID, err)
		return
	}

	client := NewClient(hub, conn, childID, role, deviceID)
	hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// ReadPump reads frames until the connection fails and hands them to the hub.
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Recovered in ReadPump: %v", r)
		}
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WebSocket] Read error for child %d: %v", c.ChildID, err)
			}
			break
		}
		c.hub.handleInbound(c, message)
	}
}

// WritePump writes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Recovered in WritePump: %v", r)
		}
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WebSocket] Write error for child %d: %v", c.ChildID, err)
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
