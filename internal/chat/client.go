package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/internal/middleware"
	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins in dev; restrict in production
	},
}

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client represents one WebSocket connection in a chat room.
type Client struct {
	ID       string
	ChatID   string
	UserID   uuid.UUID
	UserName string
	hub      *Hub
	repo     *Repository
	notifier *notify.Notifier
	chat     *models.Chat
	conn     *websocket.Conn
	send     chan WSMessage
	logger   *zap.Logger
}

// ServeWs handles the WebSocket upgrade for GET /ws/chat. The session
// token travels in the auth cookie or a token query parameter; a room
// the caller cannot see answers 404 just like the REST surface.
func ServeWs(hub *Hub, repo *Repository, notifier *notify.Notifier, verify middleware.VerifyFunc, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatIDStr := c.Query("chat_id")
		if chatIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id required"})
			return
		}
		chatID, err := primitive.ObjectIDFromHex(chatIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat_id"})
			return
		}
		token := c.Query("token")
		if token == "" {
			if cookie, err := c.Cookie("auth_token"); err == nil {
				token = cookie
			} else if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}
		p, err := verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		chat, err := repo.GetByID(c.Request.Context(), chatID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		if !authz.IsVisible(p, chat.GroupScope()) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:       uuid.New().String(),
			ChatID:   chatID.Hex(),
			UserID:   p.UserID,
			UserName: p.Name,
			hub:      hub,
			repo:     repo,
			notifier: notifier,
			chat:     chat,
			conn:     conn,
			send:     make(chan WSMessage, 256),
			logger:   logger,
		}
		hub.Register(client)
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))

		switch msg.Event {
		case "message":
			c.handleMessage(msg.Data)
		case "typing":
			// Ephemeral; fan out without persisting.
			c.hub.Publish(c.ChatID, "typing", map[string]string{
				"user_id":   c.UserID.String(),
				"user_name": c.UserName,
			})
		default:
			// ignore
		}
	}
}

func (c *Client) handleMessage(data json.RawMessage) {
	var payload struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || strings.TrimSpace(payload.Body) == "" {
		return
	}
	chatID, err := primitive.ObjectIDFromHex(c.ChatID)
	if err != nil {
		return
	}
	m := &models.ChatMessage{
		ChatID:   chatID,
		UserID:   c.UserID.String(),
		UserName: c.UserName,
		Body:     payload.Body,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.repo.AppendMessage(ctx, m); err != nil {
		c.logger.Error("append chat message", zap.Error(err), zap.String("chat_id", c.ChatID))
		return
	}
	// Publish-only so the Redis subscriber broadcasts once per instance.
	c.hub.Publish(c.ChatID, "message", m)
	c.notifier.ChatMessage(c.chat, m)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
