package groups

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bayside-club/backend/pkg/response"
)

// CreateRequest is the body for POST /groups.
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameRequest is the body for PATCH /groups/:id.
type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// Handler handles group HTTP endpoints. Route-level middleware enforces
// the manage-groups action; nothing here is group-scoped.
type Handler struct {
	repo *Repository
}

// NewHandler creates a groups handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /groups.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list groups")
		return
	}
	response.OK(c, list)
}

// Create handles POST /groups (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g, err := h.repo.Create(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			response.Conflict(c, "group name already exists")
			return
		}
		response.Internal(c, "failed to create group")
		return
	}
	response.Created(c, g)
}

// Rename handles PATCH /groups/:id (admin only).
func (h *Handler) Rename(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g, err := h.repo.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "group not found")
		case errors.Is(err, ErrDuplicateName):
			response.Conflict(c, "group name already exists")
		default:
			response.Internal(c, "failed to rename group")
		}
		return
	}
	response.OK(c, g)
}

// Delete handles DELETE /groups/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "group not found")
			return
		}
		response.Internal(c, "failed to delete group")
		return
	}
	response.OK(c, gin.H{"deleted": id})
}
