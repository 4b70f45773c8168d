package websocket

import (
	"bytes"
	"encoding/json"
	"image"
	"image/jpeg"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"movie-quiz/internal/view"
)

// Message represents the standard message format exchanged over WebSocket.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	MessageScreen = "screen"
	MessageAction = "action"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
)

// Dispatcher receives button presses from the page.
type Dispatcher interface {
	Dispatch(act view.Action)
}

type outbound struct {
	kind int
	data []byte
}

// Hub fans the single game surface out to every connected page. Each page
// shows the same screen; presses from any of them drive the one game.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	dispatcher  Dispatcher
	upgrader    websocket.Upgrader
	jpegQuality int
	lastScreen  []byte
	stop        chan struct{}
}

type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan outbound
	done chan struct{}
}

// NewHub builds a hub. allowOrigin decides which page origins may connect;
// nil allows any.
func NewHub(jpegQuality int, allowOrigin func(origin string) bool) *Hub {
	h := &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		jpegQuality: jpegQuality,
		stop:        make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowOrigin == nil {
				return true
			}
			return allowOrigin(origin)
		},
	}
	return h
}

func (h *Hub) SetDispatcher(d Dispatcher) {
	h.dispatcher = d
}

// Run listens on the register and unregister channels until Close.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.lastScreen != nil {
				client.enqueue(outbound{kind: websocket.TextMessage, data: h.lastScreen})
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("Client %s connected (%d total)", client.id, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.done)
				log.Printf("Client %s disconnected (%d left)", client.id, len(h.clients))
			}
			h.mu.Unlock()

		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.done)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Close disconnects every client and ends Run.
func (h *Hub) Close() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
}

// Present broadcasts a screen and remembers it for pages that connect later.
func (h *Hub) Present(tree view.Tree) {
	data, err := json.Marshal(tree)
	if err != nil {
		log.Printf("Error marshaling screen: %v", err)
		return
	}
	msg, err := json.Marshal(Message{Type: MessageScreen, Data: data})
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastScreen = msg
	h.broadcastLocked(outbound{kind: websocket.TextMessage, data: msg}, false)
}

// ShowFrame broadcasts one JPEG-encoded frame as a binary message. Pages that
// are behind drop frames instead of being disconnected.
func (h *Hub) ShowFrame(img image.Image) {
	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	if n == 0 {
		return
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: h.jpegQuality}); err != nil {
		log.Printf("Error encoding frame: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.broadcastLocked(outbound{kind: websocket.BinaryMessage, data: buf.Bytes()}, true)
}

// broadcastLocked queues msg on every client. Callers hold h.mu.
func (h *Hub) broadcastLocked(msg outbound, droppable bool) {
	for client := range h.clients {
		if client.enqueue(msg) || droppable {
			continue
		}
		log.Printf("Send channel full for client %s; unregistering client", client.id)
		go h.drop(client)
	}
}

func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stop:
	}
}

// HandleWebSocket upgrades the HTTP connection to a WebSocket and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan outbound, sendBuffer),
		done: make(chan struct{}),
	}
	select {
	case h.register <- client:
	case <-h.stop:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) enqueue(msg outbound) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// readPump forwards action messages to the dispatcher.
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Unexpected close from client %s: %v", c.id, err)
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message from client %s: %v", c.id, err)
		return
	}
	if msg.Type != MessageAction {
		log.Printf("Client %s sent unknown message type %q", c.id, msg.Type)
		return
	}
	var act view.Action
	if err := json.Unmarshal(msg.Data, &act); err != nil {
		log.Printf("Error decoding action from client %s: %v", c.id, err)
		return
	}
	if c.hub.dispatcher == nil {
		log.Printf("No dispatcher set; dropping action %q", act.Name)
		return
	}
	c.hub.dispatcher.Dispatch(act)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
				log.Printf("Error writing to client %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
