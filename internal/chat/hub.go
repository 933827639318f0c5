package chat

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Heartbeat intervals in seconds.
const (
	PingInterval = 30
	PongWait     = 60
)

// Publisher publishes chat events for cross-instance broadcast.
type Publisher interface {
	PublishChatEvent(chatID string, event string, payload []byte) error
}

// Subscriber subscribes to a chat channel and invokes handler for
// incoming events, returning a cancel function.
type Subscriber interface {
	SubscribeChat(chatID string, handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains chat_id -> set of connections and broadcasts messages.
// Redis pub/sub fans events out across instances: the local broadcast
// happens in the subscriber callback so each message is delivered once.
type Hub struct {
	rooms  map[string]map[string]*Client
	subs   map[string]func()
	mu     sync.RWMutex
	logger *zap.Logger
	pub    Publisher
	sub    Subscriber
}

// NewHub creates a WebSocket hub. pub and sub may be nil; the hub then
// broadcasts locally only.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]*Client),
		subs:   make(map[string]func()),
		logger: logger,
		pub:    pub,
		sub:    sub,
	}
}

// Register adds a client to a chat room, starting the Redis
// subscription when it is the first local client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.ChatID] == nil {
		h.rooms[c.ChatID] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribeChat(c.ChatID, func(event string, payload []byte) {
				h.Broadcast(c.ChatID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.ChatID] = cancel
			}
		}
	}
	h.rooms[c.ChatID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined chat", zap.String("client_id", c.ID), zap.String("chat_id", c.ChatID))
}

// Unregister removes a client, cancelling the Redis subscription when
// the last local client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.rooms[c.ChatID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.rooms, c.ChatID)
			if cancel, ok := h.subs[c.ChatID]; ok {
				cancel()
				delete(h.subs, c.ChatID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left chat", zap.String("client_id", c.ID), zap.String("chat_id", c.ChatID))
}

// Broadcast sends a message to all local clients in a chat.
func (h *Hub) Broadcast(chatID string, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	// Copy under the lock; the inner map mutates on register/unregister.
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[chatID]))
	for _, c := range h.rooms[chatID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// Publish publishes to Redis only; the subscriber callback performs the
// broadcast once for every instance including this one. Falls back to a
// local broadcast when pub/sub is not wired.
func (h *Hub) Publish(chatID string, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if h.pub != nil {
		_ = h.pub.PublishChatEvent(chatID, event, data)
		return
	}
	h.Broadcast(chatID, event, json.RawMessage(data))
}

// PresenceCount returns the number of locally connected clients.
func (h *Hub) PresenceCount(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}
