package assistant

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type ChatMessage struct {
	Message string `json:"message"`
}

type ChatReply struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Hub serves the assistant over websockets. Every text frame carrying
// {"message": ...} is answered with one {"response": ...} frame.
type Hub struct {
	bot      *Bot
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan ChatReply
	// done is closed when writePump exits
	done chan struct{}
	once sync.Once
}

// NewHub accepts connections from the given origins. No origins means any.
func NewHub(bot *Bot, origins []string) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimSuffix(o, "/")] = true
	}
	return &Hub{
		bot:     bot,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin] || allowed["*"]
			},
		},
	}
}

func (h *Hub) ServeWs(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the error response
		log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	cl := &client{hub: h, conn: conn, send: make(chan ChatReply, 16), done: make(chan struct{})}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	log.WithField("clients", count).Debug("chat client connected")

	go cl.writePump()
	go cl.readPump()
}

// Count reports the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		cl.conn.Close()
	}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl)
	count := len(h.clients)
	h.mu.Unlock()
	cl.once.Do(func() { close(cl.send) })
	log.WithField("clients", count).Debug("chat client disconnected")
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("chat connection closed unexpectedly")
			}
			return
		}

		if !c.reply(c.hub.answer(data)) {
			return
		}
	}
}

func (h *Hub) answer(data []byte) ChatReply {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ChatReply{Error: "invalid message format"}
	}
	if strings.TrimSpace(msg.Message) == "" {
		return ChatReply{Error: "message is required"}
	}
	return ChatReply{Response: h.bot.Reply(msg.Message)}
}

// reply queues r for writePump. It reports false once writePump is gone.
func (c *client) reply(r ChatReply) bool {
	select {
	case c.send <- r:
		return true
	case <-c.done:
		return false
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case reply, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(reply); err != nil {
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
