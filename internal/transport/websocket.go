package transport

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tahcohcat/coach-pro/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Dev transport: allow connections from any origin.
		return true
	},
}

// WSHub is a development chat transport over websockets, so the coach can
// be exercised locally without a Telegram token. Each client connects with
// its chat id in the query string.
type WSHub struct {
	handler    Handler
	clients    map[*wsClient]bool
	byChat     map[int64]map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	mu         sync.RWMutex
	logger     *logger.Log
}

type wsClient struct {
	hub       *WSHub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	chatID    int64
	username  string
	firstName string
}

type wsInbound struct {
	Text   string `json:"text,omitempty"`
	Choice string `json:"choice,omitempty"`
}

type wsOutbound struct {
	Type     string     `json:"type"` // "text", "image", "choices"
	Text     string     `json:"text,omitempty"`
	Markdown bool       `json:"markdown,omitempty"`
	Caption  string     `json:"caption,omitempty"`
	PNG      string     `json:"png_base64,omitempty"`
	Choices  []wsChoice `json:"choices,omitempty"`
}

type wsChoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func NewWSHub(handler Handler) *WSHub {
	return &WSHub{
		handler:    handler,
		clients:    make(map[*wsClient]bool),
		byChat:     make(map[int64]map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		logger:     logger.New(),
	}
}

func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.byChat[client.chatID] == nil {
				h.byChat[client.chatID] = make(map[*wsClient]bool)
			}
			h.byChat[client.chatID][client] = true
			h.mu.Unlock()
			h.logger.Infof("Chat client %s connected (chat %d). Total: %d", client.sessionID, client.chatID, len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				delete(h.byChat[client.chatID], client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Infof("Chat client %s disconnected. Total: %d", client.sessionID, len(h.clients))
		}
	}
}

func (h *WSHub) deliver(chatID int64, frame wsOutbound) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.byChat[chatID] {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the frame rather than block the coach.
		}
	}
	return nil
}

func (h *WSHub) SendText(chatID int64, text string, markdown bool) error {
	return h.deliver(chatID, wsOutbound{Type: "text", Text: text, Markdown: markdown})
}

func (h *WSHub) SendImage(chatID int64, png []byte, caption string) error {
	return h.deliver(chatID, wsOutbound{
		Type:    "image",
		Caption: caption,
		PNG:     base64.StdEncoding.EncodeToString(png),
	})
}

func (h *WSHub) SendChoicePrompt(chatID int64, text string, choices []Choice) error {
	out := make([]wsChoice, 0, len(choices))
	for _, c := range choices {
		out = append(out, wsChoice{ID: c.ID, Label: c.Label})
	}
	return h.deliver(chatID, wsOutbound{Type: "choices", Text: text, Choices: out})
}

func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithError(err).Warn("WebSocket read error")
			}
			break
		}

		var in wsInbound
		if err := json.Unmarshal(raw, &in); err != nil {
			continue
		}
		switch {
		case in.Choice != "":
			c.hub.handler.OnChoiceSelected(c.chatID, in.Choice)
		case in.Text != "":
			c.hub.handler.OnTextMessage(c.chatID, c.username, c.firstName, in.Text)
		}
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.hub.logger.WithError(err).Warn("WebSocket write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// HandleWS upgrades an HTTP request into a chat client. The chat id comes
// from the query string, e.g. /ws?chat_id=42&name=Luca.
func (h *WSHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(r.URL.Query().Get("chat_id"), 10, 64)
	if err != nil || chatID <= 0 {
		http.Error(w, "chat_id query parameter required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("WebSocket upgrade error")
		return
	}

	client := &wsClient{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: uuid.NewString(),
		chatID:    chatID,
		firstName: r.URL.Query().Get("name"),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
