package sponsors

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/pkg/response"
)

// SponsorRequest is the body for POST /sponsors and PATCH /sponsors/:id.
type SponsorRequest struct {
	Name      string `json:"name" binding:"required"`
	LogoURL   string `json:"logo_url"`
	Website   string `json:"website"`
	Blurb     string `json:"blurb"`
	SortOrder int    `json:"sort_order"`
}

// Handler handles sponsor HTTP endpoints. The list is public; all
// mutations sit behind the admin route middleware.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a sponsors handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /sponsors.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list sponsors")
		return
	}
	response.OK(c, list)
}

// Create handles POST /sponsors.
func (h *Handler) Create(c *gin.Context) {
	var req SponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	s := &models.Sponsor{
		Name:      req.Name,
		LogoURL:   req.LogoURL,
		Website:   req.Website,
		Blurb:     req.Blurb,
		SortOrder: req.SortOrder,
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		h.logger.Error("create sponsor", zap.Error(err))
		response.Internal(c, "failed to create sponsor")
		return
	}
	response.Created(c, s)
}

// Update handles PATCH /sponsors/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid sponsor id")
		return
	}
	s, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "sponsor not found")
		return
	}
	var req SponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	s.Name = req.Name
	s.LogoURL = req.LogoURL
	s.Website = req.Website
	s.Blurb = req.Blurb
	s.SortOrder = req.SortOrder
	if err := h.repo.Update(c.Request.Context(), s); err != nil {
		response.Internal(c, "failed to update sponsor")
		return
	}
	response.OK(c, s)
}

// Delete handles DELETE /sponsors/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid sponsor id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "sponsor not found")
			return
		}
		response.Internal(c, "failed to delete sponsor")
		return
	}
	response.OK(c, gin.H{"deleted": id.Hex()})
}
