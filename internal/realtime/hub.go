package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 32
)

// Event is the frame pushed to websocket clients.
type Event struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message"`
}

type client struct {
	userID int32
	conn   *websocket.Conn
	send   chan []byte
}

// Hub delivers new messages to the websocket connections of their
// participants. With a Redis client, deliveries fan out through a pub/sub
// channel so every server instance reaches its own connections.
type Hub struct {
	upgrader websocket.Upgrader
	redis    *redis.Client
	channel  string

	mu      sync.RWMutex
	clients map[int32]map[*client]struct{}
}

// NewHub returns a hub. rdb may be nil for single-instance deployments.
func NewHub(rdb *redis.Client, channel string, allowedOrigins []string) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		redis:   rdb,
		channel: channel,
		clients: make(map[int32]map[*client]struct{}),
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Broadcast implements service.Broadcaster.
func (h *Hub) Broadcast(ctx context.Context, msg *domain.Message) error {
	data, err := json.Marshal(Event{Type: "message", Message: msg})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	if h.redis == nil {
		h.deliver(msg, data)
		return nil
	}
	if err := h.redis.Publish(ctx, h.channel, data).Err(); err != nil {
		logger.ExternalServiceResult("redis", "Publish", err, "channel", h.channel)
		return fmt.Errorf("failed to publish to %s: %w", h.channel, err)
	}
	return nil
}

// Run relays pub/sub frames to local connections until ctx is done. It
// returns immediately when the hub has no Redis client.
func (h *Hub) Run(ctx context.Context) error {
	if h.redis == nil {
		return nil
	}
	sub := h.redis.Subscribe(ctx, h.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", h.channel, err)
	}
	logger.Info("Realtime fanout subscribed", "channel", h.channel)

	frames := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(frame.Payload), &ev); err != nil || ev.Message == nil {
				logger.Warn("Dropping malformed realtime frame", "error", err)
				continue
			}
			h.deliver(ev.Message, []byte(frame.Payload))
		}
	}
}

func (h *Hub) deliver(msg *domain.Message, data []byte) {
	recipients := map[int32]struct{}{msg.ReceiverID: {}}
	for _, p := range msg.Participants {
		recipients[p] = struct{}{}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for userID := range recipients {
		for c := range h.clients[userID] {
			select {
			case c.send <- data:
			default:
				logger.Warn("Realtime client too slow, dropping frame", "userID", userID, "messageID", msg.ID)
			}
		}
	}
}

// ClientCount reports the number of open connections for userID.
func (h *Hub) ClientCount(userID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// ServeWS upgrades the request and registers the connection for userID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int32) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", "userID", userID, "error", err)
		return
	}
	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeClientConnected()
	logger.Debug("Realtime client connected", "userID", c.userID)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	conns, ok := h.clients[c.userID]
	if ok {
		if _, ok = conns[c]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.clients, c.userID)
			}
			close(c.send)
		}
	}
	h.mu.Unlock()
	if ok {
		metrics.RealtimeClientDisconnected()
		logger.Debug("Realtime client disconnected", "userID", c.userID)
	}
}

// readPump only services control frames; clients send messages over HTTP.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4 << 10)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
