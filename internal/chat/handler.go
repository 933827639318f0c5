package chat

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/internal/middleware"
	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/internal/notify"
	"github.com/bayside-club/backend/pkg/response"
)

// ChatRequest is the body for POST /chats.
type ChatRequest struct {
	Name     string   `json:"name" binding:"required"`
	GroupIDs []string `json:"group_ids"`
}

// MessageRequest is the body for POST /chats/:id/messages, the REST
// fallback for clients without a WebSocket.
type MessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// Handler handles chat HTTP endpoints.
type Handler struct {
	repo     *Repository
	hub      *Hub
	notifier *notify.Notifier
	logger   *zap.Logger
}

// NewHandler creates a chat handler.
func NewHandler(repo *Repository, hub *Hub, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, hub: hub, notifier: notifier, logger: logger}
}

func canManage(p *authz.Principal, scope []uuid.UUID) bool {
	return authz.CanPerform(p, authz.ActionDeleteAnyResource) || authz.CanManageScoped(p, scope)
}

// List handles GET /chats: the rooms the caller may join.
func (h *Handler) List(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	all, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list chats")
		return
	}
	visible := make([]models.Chat, 0, len(all))
	for _, chat := range all {
		if authz.IsVisible(p, chat.GroupScope()) {
			visible = append(visible, chat)
		}
	}
	response.OK(c, visible)
}

// Create handles POST /chats.
func (h *Handler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	scope := models.ParseGroupScope(req.GroupIDs)
	if len(scope) != len(req.GroupIDs) {
		response.BadRequest(c, "invalid group_ids")
		return
	}
	if !authz.CanCreateScoped(p, scope) {
		response.Forbidden(c, "not allowed to create chats for this scope")
		return
	}
	chat := &models.Chat{
		Name:      req.Name,
		GroupIDs:  models.GroupScopeStrings(scope),
		CreatedBy: p.UserID.String(),
	}
	if err := h.repo.Create(c.Request.Context(), chat); err != nil {
		h.logger.Error("create chat", zap.Error(err))
		response.Internal(c, "failed to create chat")
		return
	}
	response.Created(c, chat)
}

// Delete handles DELETE /chats/:id, removing the room and its history.
func (h *Handler) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid chat id")
		return
	}
	chat, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "chat not found")
		return
	}
	if !canManage(p, chat.GroupScope()) {
		response.Forbidden(c, "not authorized to manage this chat")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete chat")
		return
	}
	response.OK(c, gin.H{"deleted": id.Hex()})
}

// History handles GET /chats/:id/messages?before=RFC3339&limit=n,
// returning messages oldest first.
func (h *Handler) History(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid chat id")
		return
	}
	chat, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "chat not found")
		return
	}
	if !authz.IsVisible(p, chat.GroupScope()) {
		response.NotFound(c, "chat not found")
		return
	}

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		before, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid before timestamp")
			return
		}
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	messages, err := h.repo.History(c.Request.Context(), id, before, limit)
	if err != nil {
		response.Internal(c, "failed to load history")
		return
	}
	response.OK(c, messages)
}

// Post handles POST /chats/:id/messages: persists a message and fans it
// out to connected clients.
func (h *Handler) Post(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid chat id")
		return
	}
	chat, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "chat not found")
		return
	}
	if !authz.IsVisible(p, chat.GroupScope()) {
		response.NotFound(c, "chat not found")
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m := &models.ChatMessage{
		ChatID:   id,
		UserID:   p.UserID.String(),
		UserName: p.Name,
		Body:     req.Body,
	}
	if err := h.repo.AppendMessage(c.Request.Context(), m); err != nil {
		h.logger.Error("append chat message", zap.Error(err), zap.String("chat_id", id.Hex()))
		response.Internal(c, "failed to save message")
		return
	}
	h.hub.Publish(id.Hex(), "message", m)
	h.notifier.ChatMessage(chat, m)
	response.Created(c, m)
}
